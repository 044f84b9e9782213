package algtype

import (
	"reflect"
	"strings"
)

// Shape describes the structure of an encoding: a right-leaning list of
// variants (Sum ... Zero), each a right-leaning list of fields
// (Product ... One). Shapes are immutable and safe to share.
type Shape struct {
	kind  Kind
	leaf  reflect.Type // product head
	left  *Shape       // sum: this variant
	right *Shape       // sum: remaining variants; product: remaining fields
}

var (
	zeroShape = &Shape{kind: KindZero}
	oneShape  = &Shape{kind: KindOne}
)

// ZeroShape returns the uninhabited shape.
func ZeroShape() *Shape { return zeroShape }

// OneShape returns the unit shape.
func OneShape() *Shape { return oneShape }

// SumShape returns the shape choosing between this and next.
func SumShape(this, next *Shape) *Shape {
	return &Shape{kind: KindSum, left: this, right: next}
}

// ProductShape returns the shape pairing a leaf of type leaf with tail.
func ProductShape(leaf reflect.Type, tail *Shape) *Shape {
	return &Shape{kind: KindProduct, leaf: leaf, right: tail}
}

// SumOfProducts builds the shape of a type from the field types of each of
// its variants, in declaration order.
func SumOfProducts(variants ...[]reflect.Type) *Shape {
	s := ZeroShape()
	for i := len(variants) - 1; i >= 0; i-- {
		p := OneShape()
		for j := len(variants[i]) - 1; j >= 0; j-- {
			p = ProductShape(variants[i][j], p)
		}
		s = SumShape(p, s)
	}
	return s
}

func (s *Shape) Kind() Kind { return s.kind }

// Leaf returns the head type of a product shape and nil otherwise.
func (s *Shape) Leaf() reflect.Type { return s.leaf }

// This returns the first variant of a sum shape.
func (s *Shape) This() *Shape {
	if s.kind != KindSum {
		return nil
	}
	return s.left
}

// Next returns the remaining variants of a sum shape.
func (s *Shape) Next() *Shape {
	if s.kind != KindSum {
		return nil
	}
	return s.right
}

// Tail returns the remaining fields of a product shape.
func (s *Shape) Tail() *Shape {
	if s.kind != KindProduct {
		return nil
	}
	return s.right
}

// Variants counts the sum links along the right spine.
func (s *Shape) Variants() int {
	n := 0
	for ; s.kind == KindSum; s = s.right {
		n++
	}
	return n
}

// Fields returns the field types of the i-th variant of a sum-of-products
// shape, or nil if there is no such variant.
func (s *Shape) Fields(i int) []reflect.Type {
	for ; s.kind == KindSum; s = s.right {
		if i == 0 {
			var fields []reflect.Type
			for p := s.left; p.kind == KindProduct; p = p.right {
				fields = append(fields, p.leaf)
			}
			return fields
		}
		i--
	}
	return nil
}

// Equal reports whether s and t have the same structure and leaf types.
func (s *Shape) Equal(t *Shape) bool {
	if s == t {
		return true
	}
	if s == nil || t == nil || s.kind != t.kind || s.leaf != t.leaf {
		return false
	}
	switch s.kind {
	case KindSum:
		return s.left.Equal(t.left) && s.right.Equal(t.right)
	case KindProduct:
		return s.right.Equal(t.right)
	default:
		return true
	}
}

// Conforms reports whether the owned encoding r is a value of shape s.
func (s *Shape) Conforms(r Repr) bool {
	switch s.kind {
	case KindZero:
		return false
	case KindOne:
		_, ok := r.(One)
		return ok
	case KindSum:
		sum, ok := r.(Sum)
		if !ok {
			return false
		}
		if sum.Next {
			return s.right.Conforms(sum.Val)
		}
		return s.left.Conforms(sum.Val)
	case KindProduct:
		p, ok := r.(Product)
		if !ok {
			return false
		}
		if p.Head == nil {
			if !nilable(s.leaf) {
				return false
			}
		} else if !reflect.TypeOf(p.Head).AssignableTo(s.leaf) {
			return false
		}
		return s.right.Conforms(p.Tail)
	}
	return false
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

// String renders the shape as a type expression, for example
// "Sum<One, Sum<Product<bool, One>, Zero>>".
func (s *Shape) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Shape) write(b *strings.Builder) {
	switch s.kind {
	case KindSum:
		b.WriteString("Sum<")
		s.left.write(b)
		b.WriteString(", ")
		s.right.write(b)
		b.WriteString(">")
	case KindProduct:
		b.WriteString("Product<")
		b.WriteString(s.leaf.String())
		b.WriteString(", ")
		s.right.write(b)
		b.WriteString(">")
	default:
		b.WriteString(s.kind.String())
	}
}
