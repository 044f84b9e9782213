package countenum

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
)

// node enumerates the encodings of one shape. Arguments named ref are
// reference projections; results are owned encodings.
type node interface {
	card() Count
	index(ref algtype.Repr) (uint64, bool)
	fromIndex(i uint64) (algtype.Repr, bool)
	first() (algtype.Repr, bool)
	last() (algtype.Repr, bool)
	prev(ref algtype.Repr) (algtype.Repr, bool)
	succ(ref algtype.Repr) (algtype.Repr, bool)
	countFrom(ref algtype.Repr) Count
	each(yield func(algtype.Repr) bool) bool
	eachFrom(ref algtype.Repr, yield func(algtype.Repr) bool) bool
}

// compile builds the node of s. path holds the types being compiled, for
// rejecting recursive leaves.
func compile(s *algtype.Shape, path []reflect.Type) (node, error) {
	switch s.Kind() {
	case algtype.KindZero:
		return zeroNode{}, nil
	case algtype.KindOne:
		return oneNode{}, nil
	case algtype.KindSum:
		this, err := compile(s.This(), path)
		if err != nil {
			return nil, err
		}
		next, err := compile(s.Next(), path)
		if err != nil {
			return nil, err
		}
		return &sumNode{this: this, next: next, n: this.card().Add(next.card())}, nil
	case algtype.KindProduct:
		leaf, err := domainOf(s.Leaf(), path)
		if err != nil {
			return nil, err
		}
		tail, err := compile(s.Tail(), path)
		if err != nil {
			return nil, err
		}
		return &productNode{leaf: leaf, tail: tail, n: leaf.Card().Mul(tail.card())}, nil
	}
	return nil, fmt.Errorf("%w: shape kind %v", algtype.ErrMalformed, s.Kind())
}

func unreachable() {
	panic(fmt.Errorf("%w: value of an empty domain", algtype.ErrMalformed))
}

// zeroNode has no values.
type zeroNode struct{}

func (zeroNode) card() Count                           { return Exactly(0) }
func (zeroNode) fromIndex(uint64) (algtype.Repr, bool) { return nil, false }
func (zeroNode) first() (algtype.Repr, bool)           { return nil, false }
func (zeroNode) last() (algtype.Repr, bool)            { return nil, false }
func (zeroNode) each(func(algtype.Repr) bool) bool     { return true }

func (zeroNode) index(algtype.Repr) (uint64, bool) {
	unreachable()
	return 0, false
}

func (zeroNode) prev(algtype.Repr) (algtype.Repr, bool) {
	unreachable()
	return nil, false
}

func (zeroNode) succ(algtype.Repr) (algtype.Repr, bool) {
	unreachable()
	return nil, false
}

func (zeroNode) countFrom(algtype.Repr) Count {
	unreachable()
	return Count{}
}

func (zeroNode) eachFrom(algtype.Repr, func(algtype.Repr) bool) bool {
	unreachable()
	return true
}

// oneNode has the single value One.
type oneNode struct{}

func (oneNode) card() Count                             { return Exactly(1) }
func (oneNode) index(algtype.Repr) (uint64, bool)       { return 0, true }
func (oneNode) first() (algtype.Repr, bool)             { return algtype.One{}, true }
func (oneNode) last() (algtype.Repr, bool)              { return algtype.One{}, true }
func (oneNode) prev(algtype.Repr) (algtype.Repr, bool)  { return nil, false }
func (oneNode) succ(algtype.Repr) (algtype.Repr, bool)  { return nil, false }
func (oneNode) countFrom(algtype.Repr) Count            { return Exactly(1) }
func (oneNode) each(yield func(algtype.Repr) bool) bool { return yield(algtype.One{}) }

func (oneNode) fromIndex(i uint64) (algtype.Repr, bool) {
	if i != 0 {
		return nil, false
	}
	return algtype.One{}, true
}

func (oneNode) eachFrom(_ algtype.Repr, yield func(algtype.Repr) bool) bool {
	return yield(algtype.One{})
}

// sumNode orders every value of this before every value of next.
type sumNode struct {
	this, next node
	n          Count
}

func (s *sumNode) card() Count { return s.n }

func asSum(ref algtype.Repr) algtype.Sum {
	v, ok := ref.(algtype.Sum)
	if !ok {
		panic(fmt.Errorf("%w: expected Sum, got %T", algtype.ErrMalformed, ref))
	}
	return v
}

func inThis(r algtype.Repr, ok bool) (algtype.Repr, bool) {
	if !ok {
		return nil, false
	}
	return algtype.InThis(r), true
}

func inNext(r algtype.Repr, ok bool) (algtype.Repr, bool) {
	if !ok {
		return nil, false
	}
	return algtype.InNext(r), true
}

func (s *sumNode) index(ref algtype.Repr) (uint64, bool) {
	v := asSum(ref)
	if !v.Next {
		return s.this.index(v.Val)
	}
	i, ok := s.next.index(v.Val)
	if !ok {
		return 0, false
	}
	return s.this.card().Add(Exactly(i)).Get()
}

func (s *sumNode) fromIndex(i uint64) (algtype.Repr, bool) {
	if c, ok := s.this.card().Get(); ok && i >= c {
		return inNext(s.next.fromIndex(i - c))
	}
	return inThis(s.this.fromIndex(i))
}

func (s *sumNode) first() (algtype.Repr, bool) {
	if r, ok := inThis(s.this.first()); ok {
		return r, true
	}
	return inNext(s.next.first())
}

func (s *sumNode) last() (algtype.Repr, bool) {
	if r, ok := inNext(s.next.last()); ok {
		return r, true
	}
	return inThis(s.this.last())
}

func (s *sumNode) prev(ref algtype.Repr) (algtype.Repr, bool) {
	v := asSum(ref)
	if !v.Next {
		return inThis(s.this.prev(v.Val))
	}
	if r, ok := inNext(s.next.prev(v.Val)); ok {
		return r, true
	}
	return inThis(s.this.last())
}

func (s *sumNode) succ(ref algtype.Repr) (algtype.Repr, bool) {
	v := asSum(ref)
	if v.Next {
		return inNext(s.next.succ(v.Val))
	}
	if r, ok := inThis(s.this.succ(v.Val)); ok {
		return r, true
	}
	return inNext(s.next.first())
}

func (s *sumNode) countFrom(ref algtype.Repr) Count {
	v := asSum(ref)
	if v.Next {
		return s.next.countFrom(v.Val)
	}
	return s.this.countFrom(v.Val).Add(s.next.card())
}

func (s *sumNode) each(yield func(algtype.Repr) bool) bool {
	return s.this.each(thisYield(yield)) && s.next.each(nextYield(yield))
}

func (s *sumNode) eachFrom(ref algtype.Repr, yield func(algtype.Repr) bool) bool {
	v := asSum(ref)
	if v.Next {
		return s.next.eachFrom(v.Val, nextYield(yield))
	}
	return s.this.eachFrom(v.Val, thisYield(yield)) && s.next.each(nextYield(yield))
}

func thisYield(yield func(algtype.Repr) bool) func(algtype.Repr) bool {
	return func(r algtype.Repr) bool { return yield(algtype.InThis(r)) }
}

func nextYield(yield func(algtype.Repr) bool) func(algtype.Repr) bool {
	return func(r algtype.Repr) bool { return yield(algtype.InNext(r)) }
}

// productNode orders values by leaf first, then by tail: the rightmost field
// varies fastest.
//
// When the tail has no defined cardinality only values whose leaf is the
// first leaf value have an index, equal to the index of the tail.
type productNode struct {
	leaf Domain
	tail node
	n    Count
}

func (p *productNode) card() Count { return p.n }

func asProduct(ref algtype.Repr) algtype.Product {
	v, ok := ref.(algtype.Product)
	if !ok {
		panic(fmt.Errorf("%w: expected Product, got %T", algtype.ErrMalformed, ref))
	}
	return v
}

func (p *productNode) index(ref algtype.Repr) (uint64, bool) {
	v := asProduct(ref)
	h, ok := p.leaf.Index(v.Head)
	if !ok {
		return 0, false
	}
	if h == 0 {
		return p.tail.index(v.Tail)
	}
	t, ok := p.tail.index(v.Tail)
	if !ok {
		return 0, false
	}
	return Exactly(h).Mul(p.tail.card()).Add(Exactly(t)).Get()
}

func (p *productNode) fromIndex(i uint64) (algtype.Repr, bool) {
	hi, ti := uint64(0), i
	if c, ok := p.tail.card().Get(); ok {
		if c == 0 {
			return nil, false
		}
		hi, ti = i/c, i%c
	}
	h, ok := p.leaf.FromIndex(hi)
	if !ok {
		return nil, false
	}
	t, ok := p.tail.fromIndex(ti)
	if !ok {
		return nil, false
	}
	return algtype.Product{Head: h, Tail: t}, true
}

func (p *productNode) first() (algtype.Repr, bool) {
	h, ok := p.leaf.First()
	if !ok {
		return nil, false
	}
	t, ok := p.tail.first()
	if !ok {
		return nil, false
	}
	return algtype.Product{Head: h, Tail: t}, true
}

func (p *productNode) last() (algtype.Repr, bool) {
	h, ok := p.leaf.Last()
	if !ok {
		return nil, false
	}
	t, ok := p.tail.last()
	if !ok {
		return nil, false
	}
	return algtype.Product{Head: h, Tail: t}, true
}

func (p *productNode) prev(ref algtype.Repr) (algtype.Repr, bool) {
	v := asProduct(ref)
	if t, ok := p.tail.prev(v.Tail); ok {
		return algtype.Product{Head: p.leaf.Own(v.Head), Tail: t}, true
	}
	h, ok := p.leaf.Prev(v.Head)
	if !ok {
		return nil, false
	}
	t, ok := p.tail.last()
	if !ok {
		return nil, false
	}
	return algtype.Product{Head: h, Tail: t}, true
}

func (p *productNode) succ(ref algtype.Repr) (algtype.Repr, bool) {
	v := asProduct(ref)
	if t, ok := p.tail.succ(v.Tail); ok {
		return algtype.Product{Head: p.leaf.Own(v.Head), Tail: t}, true
	}
	h, ok := p.leaf.Succ(v.Head)
	if !ok {
		return nil, false
	}
	t, ok := p.tail.first()
	if !ok {
		return nil, false
	}
	return algtype.Product{Head: h, Tail: t}, true
}

// countFrom counts the rest of the tail under the current leaf, plus every
// tail under each later leaf.
func (p *productNode) countFrom(ref algtype.Repr) Count {
	v := asProduct(ref)
	n, ok := p.leaf.CountFrom(v.Head).Get()
	if !ok {
		return Overflow
	}
	more := Exactly(0)
	if n > 1 {
		more = Exactly(n - 1).Mul(p.tail.card())
	}
	return p.tail.countFrom(v.Tail).Add(more)
}

func (p *productNode) each(yield func(algtype.Repr) bool) bool {
	return p.leaf.Each(func(h any) bool {
		return p.tail.each(headYield(h, yield))
	})
}

func (p *productNode) eachFrom(ref algtype.Repr, yield func(algtype.Repr) bool) bool {
	v := asProduct(ref)
	if !p.tail.eachFrom(v.Tail, headYield(p.leaf.Own(v.Head), yield)) {
		return false
	}
	h, ok := p.leaf.Succ(v.Head)
	if !ok {
		return true
	}
	return p.leaf.EachFrom(p.leaf.Ref(h), func(h any) bool {
		return p.tail.each(headYield(h, yield))
	})
}

func headYield(h any, yield func(algtype.Repr) bool) func(algtype.Repr) bool {
	return func(t algtype.Repr) bool { return yield(algtype.Product{Head: h, Tail: t}) }
}
