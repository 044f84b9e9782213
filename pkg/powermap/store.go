package powermap

import (
	"fmt"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
)

// store holds one value per encoding of a key shape. The implementations
// mirror the shape: zeroStore holds nothing, oneStore one value, sumStore a
// store per side and productStore a tail store per slot of its leaf key.
type store[V any] interface {
	// at returns the slot of the key whose reference projection is ref.
	at(ref algtype.Repr) *V
	// each visits the slots in ascending key order.
	each(yield func(*V) bool) bool
	// eachKey is each with the owned encoding of every key; wrap completes
	// the encoding of the enclosing shape.
	eachKey(wrap func(algtype.Repr) algtype.Repr, yield func(algtype.Repr, *V) bool) bool
}

type zeroStore[V any] struct{}

type oneStore[V any] struct {
	v V
}

type sumStore[V any] struct {
	this, next store[V]
}

type productStore[V any] struct {
	key  leafKey
	rows []store[V]
}

func (*zeroStore[V]) at(algtype.Repr) *V {
	panic(fmt.Errorf("%w: key of an empty domain", algtype.ErrMalformed))
}

func (*zeroStore[V]) each(func(*V) bool) bool { return true }

func (*zeroStore[V]) eachKey(func(algtype.Repr) algtype.Repr, func(algtype.Repr, *V) bool) bool {
	return true
}

func (s *oneStore[V]) at(algtype.Repr) *V            { return &s.v }
func (s *oneStore[V]) each(yield func(*V) bool) bool { return yield(&s.v) }

func (s *oneStore[V]) eachKey(wrap func(algtype.Repr) algtype.Repr, yield func(algtype.Repr, *V) bool) bool {
	return yield(wrap(algtype.One{}), &s.v)
}

func (s *sumStore[V]) at(ref algtype.Repr) *V {
	v, ok := ref.(algtype.Sum)
	if !ok {
		panic(fmt.Errorf("%w: expected Sum, got %T", algtype.ErrMalformed, ref))
	}
	if v.Next {
		return s.next.at(v.Val)
	}
	return s.this.at(v.Val)
}

func (s *sumStore[V]) each(yield func(*V) bool) bool {
	return s.this.each(yield) && s.next.each(yield)
}

func (s *sumStore[V]) eachKey(wrap func(algtype.Repr) algtype.Repr, yield func(algtype.Repr, *V) bool) bool {
	this := func(r algtype.Repr) algtype.Repr { return wrap(algtype.InThis(r)) }
	next := func(r algtype.Repr) algtype.Repr { return wrap(algtype.InNext(r)) }
	return s.this.eachKey(this, yield) && s.next.eachKey(next, yield)
}

func (s *productStore[V]) at(ref algtype.Repr) *V {
	v, ok := ref.(algtype.Product)
	if !ok {
		panic(fmt.Errorf("%w: expected Product, got %T", algtype.ErrMalformed, ref))
	}
	return s.rows[s.key.slot(v.Head)].at(v.Tail)
}

func (s *productStore[V]) each(yield func(*V) bool) bool {
	for _, row := range s.rows {
		if !row.each(yield) {
			return false
		}
	}
	return true
}

func (s *productStore[V]) eachKey(wrap func(algtype.Repr) algtype.Repr, yield func(algtype.Repr, *V) bool) bool {
	for i, row := range s.rows {
		head := s.key.key(i)
		inner := func(r algtype.Repr) algtype.Repr { return wrap(algtype.Product{Head: head, Tail: r}) }
		if !row.eachKey(inner, yield) {
			return false
		}
	}
	return true
}

func identity(r algtype.Repr) algtype.Repr { return r }

// build lays out p, filling every slot from gen in ascending key order.
func build[V any](p *plan, wrap func(algtype.Repr) algtype.Repr, gen func(algtype.Repr) V) store[V] {
	switch p.kind {
	case algtype.KindOne:
		return &oneStore[V]{v: gen(wrap(algtype.One{}))}
	case algtype.KindSum:
		return &sumStore[V]{
			this: build(p.this, func(r algtype.Repr) algtype.Repr { return wrap(algtype.InThis(r)) }, gen),
			next: build(p.next, func(r algtype.Repr) algtype.Repr { return wrap(algtype.InNext(r)) }, gen),
		}
	case algtype.KindProduct:
		rows := make([]store[V], p.key.size())
		for i := range rows {
			head := p.key.key(i)
			rows[i] = build(p.tail, func(r algtype.Repr) algtype.Repr {
				return wrap(algtype.Product{Head: head, Tail: r})
			}, gen)
		}
		return &productStore[V]{key: p.key, rows: rows}
	default:
		return &zeroStore[V]{}
	}
}

// mapStore builds a store of the same shape holding f of every slot.
func mapStore[V, W any](s store[V], f func(*V) W) store[W] {
	switch s := s.(type) {
	case *zeroStore[V]:
		return &zeroStore[W]{}
	case *oneStore[V]:
		return &oneStore[W]{v: f(&s.v)}
	case *sumStore[V]:
		return &sumStore[W]{this: mapStore(s.this, f), next: mapStore(s.next, f)}
	case *productStore[V]:
		rows := make([]store[W], len(s.rows))
		for i, row := range s.rows {
			rows[i] = mapStore(row, f)
		}
		return &productStore[W]{key: s.key, rows: rows}
	}
	panic(fmt.Errorf("%w: store %T", algtype.ErrMalformed, s))
}

// mapKeyed is mapStore with the owned encoding of every key.
func mapKeyed[V, W any](s store[V], wrap func(algtype.Repr) algtype.Repr, f func(algtype.Repr, *V) W) store[W] {
	switch s := s.(type) {
	case *zeroStore[V]:
		return &zeroStore[W]{}
	case *oneStore[V]:
		return &oneStore[W]{v: f(wrap(algtype.One{}), &s.v)}
	case *sumStore[V]:
		return &sumStore[W]{
			this: mapKeyed(s.this, func(r algtype.Repr) algtype.Repr { return wrap(algtype.InThis(r)) }, f),
			next: mapKeyed(s.next, func(r algtype.Repr) algtype.Repr { return wrap(algtype.InNext(r)) }, f),
		}
	case *productStore[V]:
		rows := make([]store[W], len(s.rows))
		for i, row := range s.rows {
			head := s.key.key(i)
			rows[i] = mapKeyed(row, func(r algtype.Repr) algtype.Repr {
				return wrap(algtype.Product{Head: head, Tail: r})
			}, f)
		}
		return &productStore[W]{key: s.key, rows: rows}
	}
	panic(fmt.Errorf("%w: store %T", algtype.ErrMalformed, s))
}

// zipStore combines two stores of the same shape slot by slot.
func zipStore[V, W, X any](a store[V], b store[W], f func(*V, *W) X) store[X] {
	switch a := a.(type) {
	case *zeroStore[V]:
		return &zeroStore[X]{}
	case *oneStore[V]:
		return &oneStore[X]{v: f(&a.v, &b.(*oneStore[W]).v)}
	case *sumStore[V]:
		bs := b.(*sumStore[W])
		return &sumStore[X]{this: zipStore(a.this, bs.this, f), next: zipStore(a.next, bs.next, f)}
	case *productStore[V]:
		bs := b.(*productStore[W])
		rows := make([]store[X], len(a.rows))
		for i, row := range a.rows {
			rows[i] = zipStore(row, bs.rows[i], f)
		}
		return &productStore[X]{key: a.key, rows: rows}
	}
	panic(fmt.Errorf("%w: store %T", algtype.ErrMalformed, a))
}

// zipEach visits the slots of two stores of the same shape in lockstep.
func zipEach[V, W any](a store[V], b store[W], yield func(*V, *W) bool) bool {
	switch a := a.(type) {
	case *zeroStore[V]:
		return true
	case *oneStore[V]:
		return yield(&a.v, &b.(*oneStore[W]).v)
	case *sumStore[V]:
		bs := b.(*sumStore[W])
		return zipEach(a.this, bs.this, yield) && zipEach(a.next, bs.next, yield)
	case *productStore[V]:
		bs := b.(*productStore[W])
		for i, row := range a.rows {
			if !zipEach(row, bs.rows[i], yield) {
				return false
			}
		}
		return true
	}
	panic(fmt.Errorf("%w: store %T", algtype.ErrMalformed, a))
}
