// Tests for enumerations compiled from encodings: the worked scenarios, the
// index and ordering laws over whole domains, overflow and rejection.
package countenum

import (
	"math"
	"reflect"
	"testing"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ty mixes unit, leaf and nested variants.
type ty interface{ isTy() }

type tyA struct{}
type tyB struct{}
type tyC struct{ V algtype.Option[int8] }
type tyD struct {
	A bool
	B bool
}
type tyE struct {
	V algtype.Result[algtype.Triple[bool, bool, struct{}], bool]
}

func (tyA) isTy() {}
func (tyB) isTy() {}
func (tyC) isTy() {}
func (tyD) isTy() {}
func (tyE) isTy() {}

// direction has variants of cardinality 1, 1 and 2.
type direction interface{ isDirection() }

type north struct{}
type south struct{}
type diagonal struct{ East bool }

func (north) isDirection()    {}
func (south) isDirection()    {}
func (diagonal) isDirection() {}

// list has no finite domain.
type list interface{ isList() }

type empty struct{}
type cons struct {
	Head bool
	Tail list
}

func (empty) isList() {}
func (cons) isList()  {}

// never has no variants and so no values.
type never interface{ isNever() }

type level int8

func init() {
	for _, err := range []error{
		algtype.RegisterUnion[ty](tyA{}, tyB{}, tyC{}, tyD{}, tyE{}),
		algtype.RegisterUnion[direction](north{}, south{}, diagonal{}),
		algtype.RegisterUnion[list](empty{}, cons{}),
		algtype.RegisterUnion[never](),
		RegisterLeaf(Integer[level]()),
	} {
		if err != nil {
			panic(err)
		}
	}
}

func collect[T any](e Enum[T]) []T {
	var out []T
	for x := range e.All() {
		out = append(out, x)
	}
	return out
}

// checkLaws walks the whole finite domain of e and checks the index,
// ordering and counting laws at every value.
func checkLaws[T any](t *testing.T, e Enum[T]) {
	t.Helper()
	n, ok := e.Card().Get()
	require.True(t, ok, "cardinality overflows")

	first, ok := e.First()
	require.Equal(t, n > 0, ok)
	if n == 0 {
		assert.Empty(t, collect(e))
		return
	}
	last, ok := e.Last()
	require.True(t, ok)
	_, ok = e.Prev(first)
	assert.False(t, ok, "prev(first)")
	_, ok = e.Succ(last)
	assert.False(t, ok, "succ(last)")
	assert.Equal(t, Exactly(n), e.CountFrom(first))
	assert.Equal(t, Exactly(1), e.CountFrom(last))

	var i uint64
	chain, chained := first, true
	for x := range e.All() {
		assert.True(t, chained)
		assert.Equal(t, chain, x, "successor chain at %d", i)

		idx, ok := e.Index(x)
		require.True(t, ok)
		assert.Equal(t, i, idx)
		back, ok := e.FromIndex(i)
		require.True(t, ok)
		assert.Equal(t, x, back)
		assert.Equal(t, Exactly(n-i), e.CountFrom(x))

		if succ, ok := e.Succ(x); ok {
			si, _ := e.Index(succ)
			assert.Equal(t, i+1, si)
			prev, ok := e.Prev(succ)
			require.True(t, ok)
			assert.Equal(t, x, prev)
		}
		chain, chained = e.Succ(x)
		i++
	}
	assert.False(t, chained)
	assert.Equal(t, n, i)
	_, ok = e.FromIndex(n)
	assert.False(t, ok)
}

// --- Scenarios ---

func TestOptionalBool(t *testing.T) {
	e := Must[algtype.Option[bool]]()
	assert.Equal(t, Exactly(3), e.Card())
	want := []algtype.Option[bool]{algtype.None[bool](), algtype.Some(false), algtype.Some(true)}
	assert.Equal(t, want, collect(e))
	for i, x := range want {
		idx, ok := e.Index(x)
		require.True(t, ok)
		assert.Equal(t, uint64(i), idx)
	}
	checkLaws(t, e)
}

func TestPairOfBools(t *testing.T) {
	e := Must[algtype.Pair[bool, bool]]()
	assert.Equal(t, Exactly(4), e.Card())
	assert.Equal(t, []algtype.Pair[bool, bool]{
		{First: false, Second: false},
		{First: false, Second: true},
		{First: true, Second: false},
		{First: true, Second: true},
	}, collect(e))
	checkLaws(t, e)
}

func TestInt8(t *testing.T) {
	e := Must[int8]()
	assert.Equal(t, Exactly(256), e.Card())
	first, _ := e.First()
	last, _ := e.Last()
	assert.Equal(t, int8(-128), first)
	assert.Equal(t, int8(127), last)
	succ, ok := e.Succ(-1)
	require.True(t, ok)
	assert.Equal(t, int8(0), succ)
	i, _ := e.Index(-128)
	assert.Equal(t, uint64(0), i)
	i, _ = e.Index(127)
	assert.Equal(t, uint64(255), i)
	i, _ = e.Index(12)
	assert.Equal(t, uint64(140), i)
	prev, _ := e.Prev(0)
	assert.Equal(t, int8(-1), prev)
	checkLaws(t, e)
}

func TestThreeVariantEnum(t *testing.T) {
	e := Must[direction]()
	assert.Equal(t, Exactly(4), e.Card())
	visited := Fold(e, []direction(nil), func(acc []direction, d direction) []direction {
		return append(acc, d)
	})
	assert.Equal(t, []direction{north{}, south{}, diagonal{East: false}, diagonal{East: true}}, visited)

	var chain []direction
	for d, ok := e.First(); ok; d, ok = e.Succ(d) {
		chain = append(chain, d)
	}
	assert.Equal(t, visited, chain)
	checkLaws(t, e)
}

// --- Laws over larger domains ---

func TestLaws(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{"bool", func(t *testing.T) { checkLaws(t, Must[bool]()) }},
		{"uint8", func(t *testing.T) { checkLaws(t, Must[uint8]()) }},
		{"int16", func(t *testing.T) { checkLaws(t, Must[int16]()) }},
		{"mixed union", func(t *testing.T) { checkLaws(t, Must[ty]()) }},
		{"result", func(t *testing.T) { checkLaws(t, Must[algtype.Result[uint8, algtype.Pair[bool, algtype.Option[[3]bool]]]]()) }},
		{"array", func(t *testing.T) { checkLaws(t, Must[[4]bool]()) }},
		{"empty array", func(t *testing.T) { checkLaws(t, Must[[0]int64]()) }},
		{"unit", func(t *testing.T) { checkLaws(t, Must[struct{}]()) }},
		{"named integer", func(t *testing.T) { checkLaws(t, Must[level]()) }},
		{"empty", func(t *testing.T) { checkLaws(t, Must[never]()) }},
		{"empty first variant", func(t *testing.T) { checkLaws(t, Must[algtype.Result[[2]bool, never]]()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}

func TestMixedUnionCardinality(t *testing.T) {
	// 1 + 1 + (1 + 256) + 2*2 + (2 + 2*2*1)
	assert.Equal(t, Exactly(269), Must[ty]().Card())
	i, ok := Must[ty]().Index(tyC{V: algtype.Some[int8](-128)})
	require.True(t, ok)
	assert.Equal(t, uint64(3), i)
}

func TestEmptyDomain(t *testing.T) {
	e := Must[never]()
	assert.Equal(t, Exactly(0), e.Card())
	_, ok := e.First()
	assert.False(t, ok)
	_, ok = e.Last()
	assert.False(t, ok)
	_, ok = e.FromIndex(0)
	assert.False(t, ok)

	p := Must[algtype.Pair[bool, never]]()
	assert.Equal(t, Exactly(0), p.Card())
	_, ok = p.First()
	assert.False(t, ok)
	assert.Empty(t, collect(p))

	r := Must[algtype.Result[bool, never]]()
	first, ok := r.First()
	require.True(t, ok)
	assert.Equal(t, algtype.Ok[bool, never](false), first)
	i, ok := r.Index(algtype.Ok[bool, never](true))
	require.True(t, ok)
	assert.Equal(t, uint64(1), i)
}

// --- Unbounded domains ---

func TestOverflowingCardinality(t *testing.T) {
	e := Must[algtype.Option[uint64]]()
	assert.True(t, e.Card().IsOverflow())

	i, ok := e.Index(algtype.Some[uint64](0))
	require.True(t, ok)
	assert.Equal(t, uint64(1), i)
	_, ok = e.Index(algtype.Some[uint64](math.MaxUint64))
	assert.False(t, ok)

	x, ok := e.FromIndex(1)
	require.True(t, ok)
	assert.Equal(t, algtype.Some[uint64](0), x)

	assert.True(t, e.CountFrom(algtype.None[uint64]()).IsOverflow())
	assert.Equal(t, Exactly(1), e.CountFrom(algtype.Some[uint64](math.MaxUint64)))
	last, _ := e.Last()
	assert.Equal(t, algtype.Some[uint64](math.MaxUint64), last)
}

func TestLeadingUnboundedField(t *testing.T) {
	e := Must[algtype.Pair[uint64, bool]]()
	assert.True(t, e.Card().IsOverflow())

	i, ok := e.Index(algtype.PairOf[uint64](0, true))
	require.True(t, ok)
	assert.Equal(t, uint64(1), i)
	i, ok = e.Index(algtype.PairOf[uint64](1, false))
	require.True(t, ok)
	assert.Equal(t, uint64(2), i)
	_, ok = e.Index(algtype.PairOf[uint64](math.MaxUint64, true))
	assert.False(t, ok)

	x, ok := e.FromIndex(3)
	require.True(t, ok)
	assert.Equal(t, algtype.PairOf[uint64](1, true), x)
}

func TestTrailingUnboundedField(t *testing.T) {
	e := Must[algtype.Pair[bool, uint64]]()
	assert.True(t, e.Card().IsOverflow())

	i, ok := e.Index(algtype.PairOf[bool, uint64](false, 5))
	require.True(t, ok)
	assert.Equal(t, uint64(5), i)
	_, ok = e.Index(algtype.PairOf[bool, uint64](true, 0))
	assert.False(t, ok)

	x, ok := e.FromIndex(7)
	require.True(t, ok)
	assert.Equal(t, algtype.PairOf[bool, uint64](false, 7), x)

	succ, ok := e.Succ(algtype.PairOf[bool, uint64](false, math.MaxUint64))
	require.True(t, ok)
	assert.Equal(t, algtype.PairOf[bool, uint64](true, 0), succ)
	prev, ok := e.Prev(succ)
	require.True(t, ok)
	assert.Equal(t, algtype.PairOf[bool, uint64](false, math.MaxUint64), prev)
}

func TestInt64Edges(t *testing.T) {
	e := Must[int64]()
	assert.True(t, e.Card().IsOverflow())
	i, ok := e.Index(math.MinInt64)
	require.True(t, ok)
	assert.Equal(t, uint64(0), i)
	i, _ = e.Index(math.MaxInt64)
	assert.Equal(t, uint64(math.MaxUint64), i)
	x, ok := e.FromIndex(math.MaxUint64)
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), x)
	assert.True(t, e.CountFrom(math.MinInt64).IsOverflow())
	assert.Equal(t, Exactly(2), e.CountFrom(math.MaxInt64-1))
}

// --- Rejections ---

func TestRejectsRecursiveAndNonEnumerableTypes(t *testing.T) {
	_, err := Of[list]()
	assert.ErrorIs(t, err, ErrRecursive)

	_, err = Of[string]()
	assert.ErrorIs(t, err, ErrNotEnumerable)

	_, err = Of[algtype.Pair[bool, []int]]()
	assert.ErrorIs(t, err, ErrNotEnumerable)
}

func TestRegisterLeafTwiceFails(t *testing.T) {
	err := RegisterLeaf(Integer[int8]())
	assert.ErrorIs(t, err, ErrRegistered)
}

func TestLeafReportsRegisteredOnly(t *testing.T) {
	d, ok := Leaf(reflect.TypeFor[int8]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[int8](), d.Type())

	_, ok = Leaf(reflect.TypeFor[algtype.Option[bool]]())
	assert.False(t, ok)
}

func TestTypedChecksDomainType(t *testing.T) {
	d, err := DomainOf(reflect.TypeFor[int8]())
	require.NoError(t, err)
	_, err = Typed[bool](d)
	assert.ErrorIs(t, err, algtype.ErrTypeMismatch)

	e, err := Typed[int8](d)
	require.NoError(t, err)
	assert.Equal(t, Exactly(256), e.Card())
}

func TestDomainUntyped(t *testing.T) {
	d, err := DomainOf(reflect.TypeFor[algtype.Option[bool]]())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[algtype.Option[bool]](), d.Type())

	x := algtype.Some(false)
	i, ok := d.Index(&x)
	require.True(t, ok)
	assert.Equal(t, uint64(1), i)
	assert.Equal(t, x, d.Own(&x))
	assert.Equal(t, &x, d.Ref(x))

	var seen []any
	complete := d.Each(func(v any) bool {
		seen = append(seen, v)
		return len(seen) < 2
	})
	assert.False(t, complete)
	assert.Equal(t, []any{algtype.None[bool](), algtype.Some(false)}, seen)
}
