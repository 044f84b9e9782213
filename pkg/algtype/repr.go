package algtype

import (
	"fmt"
	"reflect"
)

// Kind names one of the four primitive shapes.
type Kind uint8

// Primitive shapes. Zero and Sum terminate and extend the list of variants;
// One and Product terminate and extend the list of fields of one variant.
const (
	KindZero Kind = iota
	KindOne
	KindSum
	KindProduct
)

func (k Kind) String() string {
	switch k {
	case KindZero:
		return "Zero"
	case KindOne:
		return "One"
	case KindSum:
		return "Sum"
	case KindProduct:
		return "Product"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Repr is an encoded value. The implementations are One, Sum and Product;
// Zero is uninhabited and has no value type.
//
// An encoding is either owned, with product heads holding leaf values, or a
// reference projection, with product heads holding pointers to the leaves of
// a live value. Projections are produced by Codec.EncodeRef and
// Codec.EncodeMut and cannot be decoded; use Own to copy one back.
type Repr interface {
	Kind() Kind
	isRepr()
}

// One is the unit product: no fields left.
type One struct{}

// Sum selects between this variant (Next == false, Val encodes its fields)
// and the remaining variants (Next == true, Val is again a Sum).
type Sum struct {
	Next bool
	Val  Repr
}

// Product is a cons cell of one field value and the remaining fields.
type Product struct {
	Head any
	Tail Repr
}

func (One) Kind() Kind     { return KindOne }
func (Sum) Kind() Kind     { return KindSum }
func (Product) Kind() Kind { return KindProduct }

func (One) isRepr()     {}
func (Sum) isRepr()     {}
func (Product) isRepr() {}

// InThis selects the first variant of a sum.
func InThis(r Repr) Sum { return Sum{Val: r} }

// InNext skips the first variant of a sum.
func InNext(r Repr) Sum { return Sum{Next: true, Val: r} }

// Fields builds a product chain from heads, terminated by One.
func Fields(heads ...any) Repr {
	var r Repr = One{}
	for i := len(heads) - 1; i >= 0; i-- {
		r = Product{Head: heads[i], Tail: r}
	}
	return r
}

// Variant encodes the i-th variant (zero based) with the given fields.
func Variant(i int, fields Repr) Repr {
	var r Repr = InThis(fields)
	for ; i > 0; i-- {
		r = InNext(r)
	}
	return r
}

// Split is the inverse of Variant. It panics with ErrMalformed if r is not a
// sum chain ending in a selected variant.
func Split(r Repr) (int, Repr) {
	i := 0
	for {
		s, ok := r.(Sum)
		if !ok {
			panic(fmt.Errorf("%w: expected Sum, got %T", ErrMalformed, r))
		}
		if !s.Next {
			return i, s.Val
		}
		i++
		r = s.Val
	}
}

// Heads returns the field values of a product chain in order. It panics with
// ErrMalformed if r is not a product chain ending in One.
func Heads(r Repr) []any {
	var heads []any
	for {
		switch p := r.(type) {
		case One:
			return heads
		case Product:
			heads = append(heads, p.Head)
			r = p.Tail
		default:
			panic(fmt.Errorf("%w: expected Product or One, got %T", ErrMalformed, r))
		}
	}
}

// Own copies a reference projection into an owned encoding by dereferencing
// every product head.
func Own(ref Repr) Repr {
	switch r := ref.(type) {
	case One:
		return r
	case Sum:
		return Sum{Next: r.Next, Val: Own(r.Val)}
	case Product:
		return Product{Head: reflect.ValueOf(r.Head).Elem().Interface(), Tail: Own(r.Tail)}
	default:
		panic(fmt.Errorf("%w: %T", ErrMalformed, ref))
	}
}

// RefOf builds a reference projection of an owned encoding of shape s. The
// heads point at fresh copies of the leaves, not at any live value.
func RefOf(s *Shape, r Repr) Repr {
	switch s.kind {
	case KindSum:
		sum := r.(Sum)
		if sum.Next {
			return InNext(RefOf(s.right, sum.Val))
		}
		return InThis(RefOf(s.left, sum.Val))
	case KindProduct:
		p := r.(Product)
		ptr := reflect.New(s.leaf)
		if p.Head != nil {
			ptr.Elem().Set(reflect.ValueOf(p.Head))
		}
		return Product{Head: ptr.Interface(), Tail: RefOf(s.right, p.Tail)}
	case KindOne:
		return One{}
	default:
		panic(fmt.Errorf("%w: value of uninhabited shape", ErrMalformed))
	}
}
