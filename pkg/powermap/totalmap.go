package powermap

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
)

// TotalMap holds exactly one value for every key of the finite domain K.
// Lookups never fail and never hash: the key's encoding selects its slot.
//
// A TotalMap occupies one V per value of K, so K must be a small domain.
// Maps are not safe for concurrent mutation.
type TotalMap[K, V any] struct {
	keys *keySpace
	root store[V]
}

func keysOf[K any]() (*keySpace, error) {
	return keySpaceOf(reflect.TypeFor[K]())
}

// New returns a map holding the zero V at every key.
func New[K, V any]() (*TotalMap[K, V], error) {
	ks, err := keysOf[K]()
	if err != nil {
		return nil, err
	}
	return &TotalMap[K, V]{
		keys: ks,
		root: build(ks.plan, identity, func(algtype.Repr) V {
			var zero V
			return zero
		}),
	}, nil
}

// FromFunc returns a map holding f(k) at every key k. f is called once per
// key in ascending key order.
func FromFunc[K, V any](f func(K) V) (*TotalMap[K, V], error) {
	ks, err := keysOf[K]()
	if err != nil {
		return nil, err
	}
	return &TotalMap[K, V]{
		keys: ks,
		root: build(ks.plan, identity, func(r algtype.Repr) V {
			return f(decodeKey[K](ks, r))
		}),
	}, nil
}

// MustFromFunc is like FromFunc but panics on error.
func MustFromFunc[K, V any](f func(K) V) *TotalMap[K, V] {
	m, err := FromFunc(f)
	if err != nil {
		panic(err)
	}
	return m
}

func decodeKey[K any](ks *keySpace, r algtype.Repr) K {
	x := ks.decode(r)
	if x == nil {
		var zero K
		return zero
	}
	return x.(K)
}

// At returns a pointer to the value at k. Writes through it update the map.
func (m *TotalMap[K, V]) At(k K) *V {
	return m.root.at(m.keys.encodeRef(&k))
}

// Get returns the value at k.
func (m *TotalMap[K, V]) Get(k K) V { return *m.At(k) }

// Set stores v at k.
func (m *TotalMap[K, V]) Set(k K, v V) { *m.At(k) = v }

// Len returns the number of keys.
func (m *TotalMap[K, V]) Len() int { return m.keys.plan.slots }

// Values yields the values in ascending key order.
func (m *TotalMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.root.each(func(v *V) bool { return yield(*v) })
	}
}

// All yields every key and its value in ascending key order.
func (m *TotalMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.root.eachKey(identity, func(r algtype.Repr, v *V) bool {
			return yield(decodeKey[K](m.keys, r), *v)
		})
	}
}

// Clone returns a shallow copy of m.
func (m *TotalMap[K, V]) Clone() *TotalMap[K, V] {
	return &TotalMap[K, V]{keys: m.keys, root: mapStore(m.root, func(v *V) V { return *v })}
}

// Extend stores every pair of seq, later pairs overwriting earlier ones.
func (m *TotalMap[K, V]) Extend(seq iter.Seq2[K, V]) {
	for k, v := range seq {
		m.Set(k, v)
	}
}

func (m *TotalMap[K, V]) String() string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	for k, v := range m.All() {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", k, v)
	}
	b.WriteString("}")
	return b.String()
}

// Refs returns a map of pointers to the values of m, without copying them.
func Refs[K, V any](m *TotalMap[K, V]) *TotalMap[K, *V] {
	return &TotalMap[K, *V]{keys: m.keys, root: mapStore(m.root, func(v *V) *V { return v })}
}

// Map returns a map holding f of every value of m.
func Map[K, V, W any](m *TotalMap[K, V], f func(V) W) *TotalMap[K, W] {
	return &TotalMap[K, W]{keys: m.keys, root: mapStore(m.root, func(v *V) W { return f(*v) })}
}

// MapWithKey returns a map holding f of every key and value of m.
func MapWithKey[K, V, W any](m *TotalMap[K, V], f func(K, V) W) *TotalMap[K, W] {
	root := mapKeyed(m.root, identity, func(r algtype.Repr, v *V) W {
		return f(decodeKey[K](m.keys, r), *v)
	})
	return &TotalMap[K, W]{keys: m.keys, root: root}
}

// Zip pairs the values of a and b key by key.
func Zip[K, V, W any](a *TotalMap[K, V], b *TotalMap[K, W]) *TotalMap[K, algtype.Pair[V, W]] {
	return ZipWith(a, b, algtype.PairOf[V, W])
}

// ZipWith combines the values of a and b key by key.
func ZipWith[K, V, W, X any](a *TotalMap[K, V], b *TotalMap[K, W], f func(V, W) X) *TotalMap[K, X] {
	root := zipStore(a.root, b.root, func(v *V, w *W) X { return f(*v, *w) })
	return &TotalMap[K, X]{keys: a.keys, root: root}
}

// Equal reports whether a and b hold equal values at every key.
func Equal[K any, V comparable](a, b *TotalMap[K, V]) bool {
	return EqualFunc(a, b, func(v, w V) bool { return v == w })
}

// EqualFunc reports whether eq holds for the values of a and b at every key.
func EqualFunc[K, V, W any](a *TotalMap[K, V], b *TotalMap[K, W], eq func(V, W) bool) bool {
	return zipEach(a.root, b.root, func(v *V, w *W) bool { return eq(*v, *w) })
}

// Compare orders a and b lexicographically by their values in ascending key
// order.
func Compare[K any, V cmp.Ordered](a, b *TotalMap[K, V]) int {
	c := 0
	zipEach(a.root, b.root, func(v, w *V) bool {
		c = cmp.Compare(*v, *w)
		return c == 0
	})
	return c
}
