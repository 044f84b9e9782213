package countenum

import (
	"iter"
	"reflect"

	"golang.org/x/exp/constraints"
)

func init() {
	for _, err := range []error{
		RegisterLeaf(Integer[int8]()),
		RegisterLeaf(Integer[int16]()),
		RegisterLeaf(Integer[int32]()),
		RegisterLeaf(Integer[int64]()),
		RegisterLeaf(Integer[int]()),
		RegisterLeaf(Integer[uint8]()),
		RegisterLeaf(Integer[uint16]()),
		RegisterLeaf(Integer[uint32]()),
		RegisterLeaf(Integer[uint64]()),
		RegisterLeaf(Integer[uint]()),
		RegisterLeaf(Integer[uintptr]()),
	} {
		if err != nil {
			panic(err)
		}
	}
}

// integer enumerates T from its minimum to its maximum. Indices are offsets
// from the minimum, so every value has one even when the cardinality of a
// 64-bit type overflows.
type integer[T constraints.Integer] struct {
	lo, hi T
	n        Count
}

// Integer returns the enumeration of the integer type T. Named integer types
// are registered with RegisterLeaf(Integer[T]()).
func Integer[T constraints.Integer]() Enum[T] {
	bits := reflect.TypeFor[T]().Bits()
	e := integer[T]{hi: ^T(0), n: Overflow}
	if e.hi < 0 {
		// Signed: the minimum is the lone sign bit.
		e.lo = T(1) << (bits - 1)
		e.hi = ^e.lo
	}
	if bits < 64 {
		e.n = Exactly(1 << bits)
	}
	return e
}

func (e integer[T]) Card() Count { return e.n }

func (e integer[T]) Index(x T) (uint64, bool) {
	return uint64(x) - uint64(e.lo), true
}

func (e integer[T]) FromIndex(i uint64) (T, bool) {
	if n, ok := e.n.Get(); ok && i >= n {
		return 0, false
	}
	return T(uint64(e.lo) + i), true
}

func (e integer[T]) First() (T, bool) { return e.lo, true }
func (e integer[T]) Last() (T, bool)  { return e.hi, true }

func (e integer[T]) Prev(x T) (T, bool) {
	if x == e.lo {
		return 0, false
	}
	return x - 1, true
}

func (e integer[T]) Succ(x T) (T, bool) {
	if x == e.hi {
		return 0, false
	}
	return x + 1, true
}

func (e integer[T]) CountFrom(x T) Count {
	return Exactly(uint64(e.hi) - uint64(x)).Add(Exactly(1))
}

func (e integer[T]) All() iter.Seq[T] { return e.From(e.lo) }

func (e integer[T]) From(x T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			if !yield(x) || x == e.hi {
				return
			}
			x++
		}
	}
}
