package countenum

import "iter"

// Iter walks a domain forward from a starting value. It holds only the next
// value, and once exhausted it stays exhausted.
type Iter[T any] struct {
	e    Enum[T]
	next T
	ok   bool
}

// Each returns an iterator over every value of e.
func Each[T any](e Enum[T]) *Iter[T] {
	it := &Iter[T]{e: e}
	it.next, it.ok = e.First()
	return it
}

// EachFrom returns an iterator over from and every value after it.
func EachFrom[T any](e Enum[T], from T) *Iter[T] {
	return &Iter[T]{e: e, next: from, ok: true}
}

// Next returns the next value, or false once the domain is exhausted.
func (it *Iter[T]) Next() (T, bool) {
	if !it.ok {
		var zero T
		return zero, false
	}
	x := it.next
	it.next, it.ok = it.e.Succ(x)
	return x, true
}

// SizeHint returns the number of values left.
func (it *Iter[T]) SizeHint() Count {
	if !it.ok {
		return Exactly(0)
	}
	return it.e.CountFrom(it.next)
}

// Count consumes the iterator and returns the number of values left. It
// panics with ErrOverflow if that number is out of range.
func (it *Iter[T]) Count() uint64 {
	n, ok := it.SizeHint().Get()
	if !ok {
		panic(ErrOverflow)
	}
	it.ok = false
	return n
}

// Last consumes the iterator and returns its final value.
func (it *Iter[T]) Last() (T, bool) {
	if !it.ok {
		var zero T
		return zero, false
	}
	it.ok = false
	return it.e.Last()
}

// Seq consumes the iterator through the bulk traversal of the domain.
func (it *Iter[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		if !it.ok {
			return
		}
		it.ok = false
		it.e.From(it.next)(yield)
	}
}

// Fold folds f over every value of e in order.
func Fold[T, B any](e Enum[T], init B, f func(B, T) B) B {
	for x := range e.All() {
		init = f(init, x)
	}
	return init
}

// FoldFrom folds f over from and every value after it.
func FoldFrom[T, B any](e Enum[T], from T, init B, f func(B, T) B) B {
	for x := range e.From(from) {
		init = f(init, x)
	}
	return init
}
