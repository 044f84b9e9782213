package powermap

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
	"github.com/mesh-intelligence/algtype/pkg/countenum"
)

// MaxLeafKeys bounds the number of values of a single leaf key type. Wider
// leaves, such as 32-bit integers, are rejected.
const MaxLeafKeys = 1 << 16

// Key errors.
var (
	ErrKeyTooWide = errors.New("powermap: leaf key domain too wide")
	ErrNotKey     = errors.New("powermap: type cannot key a total map")
)

// leafKey assigns the values of a leaf type to the slots 0 .. size-1 in
// ascending order.
type leafKey interface {
	size() int
	// slot returns the slot of the value p points at.
	slot(p any) int
	// key returns the value in slot i.
	key(i int) any
}

// domainKey uses the enumeration index of a leaf as its slot.
type domainKey struct {
	d countenum.Domain
	n int
}

func newDomainKey(t reflect.Type) (*domainKey, error) {
	d, err := countenum.DomainOf(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrNotKey, t, err)
	}
	n, ok := d.Card().Get()
	if !ok || n > MaxLeafKeys {
		return nil, fmt.Errorf("%w: %v has %v values, max %d", ErrKeyTooWide, t, d.Card(), MaxLeafKeys)
	}
	return &domainKey{d: d, n: int(n)}, nil
}

func (k *domainKey) size() int { return k.n }

func (k *domainKey) slot(p any) int {
	i, ok := k.d.Index(p)
	if !ok {
		panic(fmt.Errorf("%w: key outside the domain of %v", algtype.ErrMalformed, k.d.Type()))
	}
	return int(i)
}

func (k *domainKey) key(i int) any {
	x, ok := k.d.FromIndex(uint64(i))
	if !ok {
		panic(fmt.Errorf("%w: slot %d outside the domain of %v", algtype.ErrMalformed, i, k.d.Type()))
	}
	return x
}

// plan is the storage layout of a key shape. Sums split into this and next;
// products hold one tail per slot of their leaf key.
type plan struct {
	kind       algtype.Kind
	key        leafKey
	this, next *plan
	tail       *plan
	slots      int
}

func compile(s *algtype.Shape) (*plan, error) {
	switch s.Kind() {
	case algtype.KindZero:
		return &plan{kind: algtype.KindZero}, nil
	case algtype.KindOne:
		return &plan{kind: algtype.KindOne, slots: 1}, nil
	case algtype.KindSum:
		this, err := compile(s.This())
		if err != nil {
			return nil, err
		}
		next, err := compile(s.Next())
		if err != nil {
			return nil, err
		}
		return &plan{kind: algtype.KindSum, this: this, next: next, slots: this.slots + next.slots}, nil
	case algtype.KindProduct:
		key, err := newDomainKey(s.Leaf())
		if err != nil {
			return nil, err
		}
		tail, err := compile(s.Tail())
		if err != nil {
			return nil, err
		}
		if tail.slots > 0 && key.size() > math.MaxInt/tail.slots {
			return nil, fmt.Errorf("%w: %v keys times %d tail slots", ErrKeyTooWide, s.Leaf(), tail.slots)
		}
		return &plan{kind: algtype.KindProduct, key: key, tail: tail, slots: key.size() * tail.slots}, nil
	}
	return nil, fmt.Errorf("%w: shape kind %v", algtype.ErrMalformed, s.Kind())
}

// keySpace converts keys of one type to encodings and back.
type keySpace struct {
	typ       reflect.Type
	plan      *plan
	encodeRef func(p any) algtype.Repr
	decode    func(r algtype.Repr) any
}

var spaces sync.Map // reflect.Type -> *keySpace

// keySpaceOf returns the key space of t. Registered leaves, such as integers,
// and enumerable types without an isomorphism are keyed as a single one-field
// variant so their slots follow the leaf order. Other types use the encoding
// of their isomorphism.
func keySpaceOf(t reflect.Type) (*keySpace, error) {
	if ks, ok := spaces.Load(t); ok {
		return ks.(*keySpace), nil
	}
	ks, err := newKeySpace(t)
	if err != nil {
		return nil, err
	}
	actual, _ := spaces.LoadOrStore(t, ks)
	return actual.(*keySpace), nil
}

func newKeySpace(t reflect.Type) (*keySpace, error) {
	if _, leaf := countenum.Leaf(t); leaf {
		return leafSpace(t)
	}
	if c, err := algtype.CodecOf(t); err == nil {
		p, err := compile(c.Shape())
		if err != nil {
			return nil, err
		}
		return &keySpace{typ: t, plan: p, encodeRef: c.EncodeRef, decode: c.Decode}, nil
	}
	return leafSpace(t)
}

func leafSpace(t reflect.Type) (*keySpace, error) {
	p, err := compile(algtype.SumOfProducts([]reflect.Type{t}))
	if err != nil {
		return nil, err
	}
	return &keySpace{
		typ:  t,
		plan: p,
		encodeRef: func(ptr any) algtype.Repr {
			return algtype.Variant(0, algtype.Fields(ptr))
		},
		decode: func(r algtype.Repr) any {
			_, rest := algtype.Split(r)
			return algtype.Heads(rest)[0]
		},
	}, nil
}
