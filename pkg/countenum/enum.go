package countenum

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
)

// Enumeration errors.
var (
	ErrNotEnumerable = errors.New("countenum: type is not enumerable")
	ErrRecursive     = errors.New("countenum: recursive type has no finite domain")
	ErrRegistered    = errors.New("countenum: leaf already registered")
	ErrOverflow      = errors.New("countenum: count overflow")
)

// Enum orders the values of T and maps them to indices.
//
// Index and FromIndex are inverses wherever both are defined. First and Last
// report false on an empty domain; Prev and Succ report false at its edges.
// CountFrom(x) is the number of values from x to the end, inclusive.
type Enum[T any] interface {
	Card() Count
	Index(x T) (uint64, bool)
	FromIndex(i uint64) (T, bool)
	First() (T, bool)
	Last() (T, bool)
	Prev(x T) (T, bool)
	Succ(x T) (T, bool)
	CountFrom(x T) Count
	// All yields every value in ascending order.
	All() iter.Seq[T]
	// From yields x and every value after it.
	From(x T) iter.Seq[T]
}

// Domain is the run-time typed form of Enum. Arguments named p are pointers
// to values of Type() and are only read; results are values of Type().
//
// Each and EachFrom stop early when yield returns false and report whether
// they ran to the end.
type Domain interface {
	Type() reflect.Type
	Card() Count
	Index(p any) (uint64, bool)
	FromIndex(i uint64) (any, bool)
	First() (any, bool)
	Last() (any, bool)
	Prev(p any) (any, bool)
	Succ(p any) (any, bool)
	CountFrom(p any) Count
	Each(yield func(any) bool) bool
	EachFrom(p any, yield func(any) bool) bool
	// Own copies the value p points at.
	Own(p any) any
	// Ref returns a pointer to a copy of x.
	Ref(x any) any
}

var (
	leaves  sync.Map // reflect.Type -> Domain, registered
	domains sync.Map // reflect.Type -> Domain, compiled from an isomorphism
)

// RegisterLeaf makes e the enumeration of T. Leaves must be registered before
// any enumeration containing them is built.
func RegisterLeaf[T any](e Enum[T]) error {
	t := reflect.TypeFor[T]()
	if _, loaded := leaves.LoadOrStore(t, enumDomain[T]{e: e}); loaded {
		return fmt.Errorf("%w: %v", ErrRegistered, t)
	}
	return nil
}

// Leaf returns the enumeration registered for t with RegisterLeaf.
func Leaf(t reflect.Type) (Domain, bool) {
	d, ok := leaves.Load(t)
	if !ok {
		return nil, false
	}
	return d.(Domain), true
}

// DomainOf returns the enumeration of t: a registered leaf, or one compiled
// from the isomorphism of t.
func DomainOf(t reflect.Type) (Domain, error) {
	return domainOf(t, nil)
}

func domainOf(t reflect.Type, path []reflect.Type) (Domain, error) {
	if d, ok := leaves.Load(t); ok {
		return d.(Domain), nil
	}
	if d, ok := domains.Load(t); ok {
		return d.(Domain), nil
	}
	if slices.Contains(path, t) {
		return nil, fmt.Errorf("%w: %v", ErrRecursive, t)
	}
	c, err := algtype.CodecOf(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrNotEnumerable, t, err)
	}
	root, err := compile(c.Shape(), append(path, t))
	if err != nil {
		return nil, err
	}
	actual, _ := domains.LoadOrStore(t, &codecDomain{codec: c, root: root})
	return actual.(Domain), nil
}

// Of returns the enumeration of T.
func Of[T any]() (Enum[T], error) {
	d, err := DomainOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return Typed[T](d)
}

// Must is like Of but panics on error.
func Must[T any]() Enum[T] {
	e, err := Of[T]()
	if err != nil {
		panic(err)
	}
	return e
}

// Typed returns the typed view of d, which must enumerate T.
func Typed[T any](d Domain) (Enum[T], error) {
	if want := reflect.TypeFor[T](); d.Type() != want {
		return nil, fmt.Errorf("%w: domain of %v used as %v", algtype.ErrTypeMismatch, d.Type(), want)
	}
	if ed, ok := d.(enumDomain[T]); ok {
		return ed.e, nil
	}
	return typed[T]{d: d}, nil
}

// typed adapts a Domain to Enum[T].
type typed[T any] struct {
	d Domain
}

func (e typed[T]) Card() Count                  { return e.d.Card() }
func (e typed[T]) Index(x T) (uint64, bool)     { return e.d.Index(&x) }
func (e typed[T]) FromIndex(i uint64) (T, bool) { return as[T](e.d.FromIndex(i)) }
func (e typed[T]) First() (T, bool)             { return as[T](e.d.First()) }
func (e typed[T]) Last() (T, bool)              { return as[T](e.d.Last()) }
func (e typed[T]) Prev(x T) (T, bool)           { return as[T](e.d.Prev(&x)) }
func (e typed[T]) Succ(x T) (T, bool)           { return as[T](e.d.Succ(&x)) }
func (e typed[T]) CountFrom(x T) Count          { return e.d.CountFrom(&x) }

func (e typed[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		e.d.Each(func(x any) bool {
			v, _ := as[T](x, true)
			return yield(v)
		})
	}
}

func (e typed[T]) From(x T) iter.Seq[T] {
	return func(yield func(T) bool) {
		e.d.EachFrom(&x, func(x any) bool {
			v, _ := as[T](x, true)
			return yield(v)
		})
	}
}

// as converts an untyped result, mapping a nil value to the zero T.
func as[T any](x any, ok bool) (T, bool) {
	if !ok || x == nil {
		var zero T
		return zero, ok
	}
	return x.(T), true
}

// enumDomain adapts an Enum[T] to Domain.
type enumDomain[T any] struct {
	e Enum[T]
}

func (d enumDomain[T]) Type() reflect.Type             { return reflect.TypeFor[T]() }
func (d enumDomain[T]) Card() Count                    { return d.e.Card() }
func (d enumDomain[T]) Index(p any) (uint64, bool)     { return d.e.Index(*p.(*T)) }
func (d enumDomain[T]) FromIndex(i uint64) (any, bool) { return box(d.e.FromIndex(i)) }
func (d enumDomain[T]) First() (any, bool)             { return box(d.e.First()) }
func (d enumDomain[T]) Last() (any, bool)              { return box(d.e.Last()) }
func (d enumDomain[T]) Prev(p any) (any, bool)         { return box(d.e.Prev(*p.(*T))) }
func (d enumDomain[T]) Succ(p any) (any, bool)         { return box(d.e.Succ(*p.(*T))) }
func (d enumDomain[T]) CountFrom(p any) Count          { return d.e.CountFrom(*p.(*T)) }
func (d enumDomain[T]) Own(p any) any                  { return *p.(*T) }

func (d enumDomain[T]) Ref(x any) any {
	v, _ := as[T](x, true)
	return &v
}

func (d enumDomain[T]) Each(yield func(any) bool) bool {
	return drain(d.e.All(), yield)
}

func (d enumDomain[T]) EachFrom(p any, yield func(any) bool) bool {
	return drain(d.e.From(*p.(*T)), yield)
}

func box[T any](x T, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return x, true
}

// drain runs seq to the end or until yield stops it, reporting which.
func drain[T any](seq iter.Seq[T], yield func(any) bool) bool {
	done := true
	seq(func(x T) bool {
		if !yield(x) {
			done = false
		}
		return done
	})
	return done
}
