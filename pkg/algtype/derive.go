package algtype

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/algtype/internal/layout"
)

// derivedCodec encodes structs, arrays and registered unions by walking
// their layout with reflection.
type derivedCodec struct {
	layout *layout.Layout
	shape  *Shape
}

func newDerivedCodec(l *layout.Layout) *derivedCodec {
	variants := make([][]reflect.Type, len(l.Variants))
	for i, v := range l.Variants {
		for _, f := range v.Fields {
			variants[i] = append(variants[i], f.Type)
		}
	}
	return &derivedCodec{layout: l, shape: SumOfProducts(variants...)}
}

func (c *derivedCodec) Type() reflect.Type { return c.layout.Type }
func (c *derivedCodec) Shape() *Shape      { return c.shape }

func (c *derivedCodec) Encode(x any) Repr {
	i, v := c.variant(reflect.ValueOf(x))
	return Variant(i, c.fields(i, v, false))
}

func (c *derivedCodec) EncodeRef(p any) Repr { return c.project(p, false) }
func (c *derivedCodec) EncodeMut(p any) Repr { return c.project(p, true) }

// project returns the reference projection of *p. A union variant stored by
// value sits in an interface and is not addressable, so its read-only
// projection aliases a copy and its mutable projection is refused.
func (c *derivedCodec) project(p any, mut bool) Repr {
	pv := reflect.ValueOf(p)
	if pv.Kind() != reflect.Pointer || pv.Type().Elem() != c.layout.Type {
		panic(fmt.Errorf("%w: want *%v, got %T", ErrTypeMismatch, c.layout.Type, p))
	}
	v := pv.Elem()
	if c.layout.Union {
		v = v.Elem()
		if !v.IsValid() {
			panic(fmt.Errorf("%w: nil %v", ErrMalformed, c.layout.Type))
		}
		if v.Kind() != reflect.Pointer {
			if i, ok := c.layout.VariantOf(v.Type()); mut && ok && len(c.layout.Variants[i].Fields) > 0 {
				panic(fmt.Errorf("%w: mutable projection of %v needs a pointer variant, got %v",
					ErrTypeMismatch, c.layout.Type, v.Type()))
			}
			cp := reflect.New(v.Type()).Elem()
			cp.Set(v)
			v = cp
		}
	}
	i, v := c.variant(v)
	return Variant(i, c.fields(i, v, true))
}

// variant finds the variant of v and returns the value holding its fields.
func (c *derivedCodec) variant(v reflect.Value) (int, reflect.Value) {
	if !c.layout.Union {
		if !v.IsValid() || v.Type() != c.layout.Type {
			panic(fmt.Errorf("%w: want %v, got %v", ErrTypeMismatch, c.layout.Type, typeOf(v)))
		}
		return 0, v
	}
	if !v.IsValid() {
		panic(fmt.Errorf("%w: nil %v", ErrMalformed, c.layout.Type))
	}
	i, ok := c.layout.VariantOf(v.Type())
	if !ok {
		panic(fmt.Errorf("%w: %v is not a registered variant of %v", ErrTypeMismatch, v.Type(), c.layout.Type))
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return i, v
}

func typeOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Type()
}

func (c *derivedCodec) fields(i int, v reflect.Value, ref bool) Repr {
	fields := c.layout.Variants[i].Fields
	var r Repr = One{}
	for j := len(fields) - 1; j >= 0; j-- {
		f := c.field(v, fields[j].Index)
		var head any
		if ref {
			head = f.Addr().Interface()
		} else {
			head = f.Interface()
		}
		r = Product{Head: head, Tail: r}
	}
	return r
}

func (c *derivedCodec) field(v reflect.Value, index int) reflect.Value {
	if v.Kind() == reflect.Array {
		return v.Index(index)
	}
	return v.Field(index)
}

func (c *derivedCodec) Decode(r Repr) any {
	i, rest := Split(r)
	if i >= len(c.layout.Variants) {
		panic(fmt.Errorf("%w: variant %d of %v, which has %d", ErrMalformed, i, c.layout.Type, len(c.layout.Variants)))
	}
	variant := c.layout.Variants[i]
	heads := Heads(rest)
	if len(heads) != len(variant.Fields) {
		panic(fmt.Errorf("%w: %d fields for variant %d of %v, want %d",
			ErrMalformed, len(heads), i, c.layout.Type, len(variant.Fields)))
	}

	var out, v reflect.Value
	if variant.Pointer() {
		out = reflect.New(variant.Type.Elem())
		v = out.Elem()
	} else {
		out = reflect.New(variant.Type).Elem()
		v = out
	}
	for j, f := range variant.Fields {
		setLeaf(c.field(v, f.Index), heads[j])
	}
	return out.Interface()
}

// setLeaf assigns head to dst; a nil head leaves dst at its zero value.
func setLeaf(dst reflect.Value, head any) {
	if head == nil {
		dst.SetZero()
		return
	}
	hv := reflect.ValueOf(head)
	if !hv.Type().AssignableTo(dst.Type()) {
		panic(fmt.Errorf("%w: leaf %v is not assignable to %v", ErrMalformed, hv.Type(), dst.Type()))
	}
	dst.Set(hv)
}
