package countenum

import (
	"math/bits"
	"strconv"
)

// Count is a number of values that may exceed the uint64 counting range.
// The zero value is Exactly(0).
type Count struct {
	n        uint64
	overflow bool
}

// Overflow marks a count outside the counting range.
var Overflow = Count{overflow: true}

// Exactly returns the count n.
func Exactly(n uint64) Count { return Count{n: n} }

// Get returns the count and whether it is in range.
func (c Count) Get() (uint64, bool) { return c.n, !c.overflow }

func (c Count) IsOverflow() bool { return c.overflow }

// Add returns c + d, or Overflow.
func (c Count) Add(d Count) Count {
	if c.overflow || d.overflow {
		return Overflow
	}
	sum, carry := bits.Add64(c.n, d.n, 0)
	if carry != 0 {
		return Overflow
	}
	return Exactly(sum)
}

// Mul returns c * d, or Overflow.
func (c Count) Mul(d Count) Count {
	if c.overflow || d.overflow {
		return Overflow
	}
	hi, lo := bits.Mul64(c.n, d.n)
	if hi != 0 {
		return Overflow
	}
	return Exactly(lo)
}

func (c Count) String() string {
	if c.overflow {
		return "overflow"
	}
	return strconv.FormatUint(c.n, 10)
}

// MarshalText renders the count as a decimal number or "overflow".
func (c Count) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
