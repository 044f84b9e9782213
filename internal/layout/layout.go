// Package layout derives the ordered variant and field layout of a Go type.
// It is the code-generation side of the structural isomorphism: given a type
// it answers "which variants, in which order, each with which fields", and it
// rejects kinds that have no fixed layout before any value of the type exists.
package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// MaxArity bounds the length of arrays expanded into fields.
const MaxArity = 12

// Layout errors.
var (
	ErrUnsupportedKind  = errors.New("layout: unsupported kind")
	ErrUnexportedField  = errors.New("layout: unexported field")
	ErrArityExceeded    = errors.New("layout: array arity exceeded")
	ErrNotInterface     = errors.New("layout: union type must be an interface")
	ErrDuplicateVariant = errors.New("layout: duplicate union variant")
	ErrUnionRegistered  = errors.New("layout: union already registered")
	ErrVariantNotImpl   = errors.New("layout: variant does not implement union")
	ErrBadVariant       = errors.New("layout: union variant must be a struct or pointer to struct")
)

// Field is one leaf position of a variant.
type Field struct {
	Index int    // struct field index or array element index
	Name  string // struct field name, or "[i]" for array elements
	Type  reflect.Type
}

// Variant is one alternative of a type, with its fields in declaration order.
// For union variants Type is the concrete variant type; for structs and arrays
// it is the type itself.
type Variant struct {
	Type   reflect.Type
	Fields []Field
}

// Pointer reports whether the variant is held through a pointer.
func (v Variant) Pointer() bool { return v.Type.Kind() == reflect.Pointer }

// Layout is the derived sum-of-products layout of a type.
type Layout struct {
	Type     reflect.Type
	Union    bool
	Variants []Variant
}

// VariantOf returns the position of the concrete type t among the variants.
func (l *Layout) VariantOf(t reflect.Type) (int, bool) {
	for i, v := range l.Variants {
		if v.Type == t {
			return i, true
		}
	}
	return 0, false
}

var unions sync.Map // reflect.Type (interface) -> []reflect.Type

// RegisterUnion declares the ordered variants of the sealed interface iface.
// Each variant must implement iface and be a struct or a pointer to a struct.
func RegisterUnion(iface reflect.Type, variants ...reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %v", ErrNotInterface, iface)
	}
	seen := make(map[reflect.Type]bool, len(variants))
	for _, v := range variants {
		if seen[v] {
			return fmt.Errorf("%w: %v", ErrDuplicateVariant, v)
		}
		seen[v] = true
		if !v.Implements(iface) {
			return fmt.Errorf("%w: %v does not implement %v", ErrVariantNotImpl, v, iface)
		}
		if structOf(v) == nil {
			return fmt.Errorf("%w: %v", ErrBadVariant, v)
		}
	}
	if _, loaded := unions.LoadOrStore(iface, append([]reflect.Type(nil), variants...)); loaded {
		return fmt.Errorf("%w: %v", ErrUnionRegistered, iface)
	}
	return nil
}

// Of derives the layout of t.
func Of(t reflect.Type) (*Layout, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedKind)
	}
	switch t.Kind() {
	case reflect.Struct:
		fields, err := structFields(t)
		if err != nil {
			return nil, err
		}
		return &Layout{Type: t, Variants: []Variant{{Type: t, Fields: fields}}}, nil
	case reflect.Array:
		if t.Len() > MaxArity {
			return nil, fmt.Errorf("%w: %v has %d elements, max %d", ErrArityExceeded, t, t.Len(), MaxArity)
		}
		fields := make([]Field, t.Len())
		for i := range fields {
			fields[i] = Field{Index: i, Name: "[" + strconv.Itoa(i) + "]", Type: t.Elem()}
		}
		return &Layout{Type: t, Variants: []Variant{{Type: t, Fields: fields}}}, nil
	case reflect.Interface:
		v, ok := unions.Load(t)
		if !ok {
			return nil, fmt.Errorf("%w: interface %v has no registered variants", ErrUnsupportedKind, t)
		}
		types := v.([]reflect.Type)
		l := &Layout{Type: t, Union: true, Variants: make([]Variant, len(types))}
		for i, vt := range types {
			fields, err := structFields(structOf(vt))
			if err != nil {
				return nil, err
			}
			l.Variants[i] = Variant{Type: vt, Fields: fields}
		}
		return l, nil
	default:
		return nil, fmt.Errorf("%w: %v (%s)", ErrUnsupportedKind, t, t.Kind())
	}
}

func structOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func structFields(t reflect.Type) ([]Field, error) {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			return nil, fmt.Errorf("%w: %v.%s", ErrUnexportedField, t, f.Name)
		}
		fields = append(fields, Field{Index: i, Name: f.Name, Type: f.Type})
	}
	return fields, nil
}
