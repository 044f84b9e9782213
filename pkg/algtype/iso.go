package algtype

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/mesh-intelligence/algtype/internal/layout"
)

// Isomorphism errors.
var (
	ErrMalformed     = errors.New("algtype: malformed encoding")
	ErrRegistered    = errors.New("algtype: type already registered")
	ErrShapeMismatch = errors.New("algtype: shape mismatch")
	ErrTypeMismatch  = errors.New("algtype: type mismatch")
)

// Codec is the run-time typed form of a structural isomorphism between a Go
// type and its sum-of-products encoding.
//
// Encode and Decode are exact inverses. EncodeRef and EncodeMut take a
// pointer to a value and return its reference projection; writes through the
// heads of an EncodeMut projection change the value, while EncodeRef
// projections must only be read. EncodeMut panics with ErrTypeMismatch on a
// union holding a non-empty variant by value, since that variant cannot be
// written in place. Decode panics with ErrMalformed when given an
// encoding that does not conform to Shape.
type Codec interface {
	Type() reflect.Type
	Shape() *Shape
	Encode(x any) Repr
	Decode(r Repr) any
	EncodeRef(p any) Repr
	EncodeMut(p any) Repr
}

// Iso is the typed view of a Codec for values of type T.
type Iso[T any] struct {
	c Codec
}

// IsoOf wraps c, which must encode values of type T.
func IsoOf[T any](c Codec) (Iso[T], error) {
	if want := reflect.TypeFor[T](); c.Type() != want {
		return Iso[T]{}, fmt.Errorf("%w: codec for %v used as %v", ErrTypeMismatch, c.Type(), want)
	}
	return Iso[T]{c: c}, nil
}

func (i Iso[T]) Codec() Codec    { return i.c }
func (i Iso[T]) Shape() *Shape   { return i.c.Shape() }
func (i Iso[T]) Encode(x T) Repr { return i.c.Encode(x) }

// Decode rebuilds a value from its encoding.
func (i Iso[T]) Decode(r Repr) T {
	return cast[T](i.c.Decode(r))
}

// EncodeRef projects *x without copying its leaves. The projection must
// only be read.
func (i Iso[T]) EncodeRef(x *T) Repr { return i.c.EncodeRef(x) }

// EncodeMut projects *x without copying its leaves; the product heads alias
// the fields of *x.
func (i Iso[T]) EncodeMut(x *T) Repr { return i.c.EncodeMut(x) }

// cast converts a decoded leaf or value to T, mapping nil to the zero value
// so that nil interfaces and pointers survive a round trip.
func cast[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Funcs is hand-written glue for Define.
type Funcs[T any] struct {
	Encode func(T) Repr
	Decode func(Repr) T
	// Ref projects a value in place. When nil, projections point at copies,
	// which is only exact for shapes without product heads.
	Ref func(*T) Repr
}

type funcCodec[T any] struct {
	shape *Shape
	fns   Funcs[T]
}

func (c *funcCodec[T]) Type() reflect.Type { return reflect.TypeFor[T]() }
func (c *funcCodec[T]) Shape() *Shape      { return c.shape }
func (c *funcCodec[T]) Encode(x any) Repr  { return c.fns.Encode(cast[T](x)) }
func (c *funcCodec[T]) Decode(r Repr) any  { return c.fns.Decode(r) }
func (c *funcCodec[T]) EncodeMut(p any) Repr {
	return c.EncodeRef(p)
}

func (c *funcCodec[T]) EncodeRef(p any) Repr {
	x := p.(*T)
	if c.fns.Ref != nil {
		return c.fns.Ref(x)
	}
	return RefOf(c.shape, c.fns.Encode(*x))
}

// NewCodec builds a Codec for T from hand-written glue without registering it.
func NewCodec[T any](shape *Shape, fns Funcs[T]) Codec {
	return &funcCodec[T]{shape: shape, fns: fns}
}

// Define registers hand-written glue as the isomorphism of T.
func Define[T any](shape *Shape, fns Funcs[T]) (Iso[T], error) {
	c := NewCodec(shape, fns)
	if err := Register(c); err != nil {
		return Iso[T]{}, err
	}
	return Iso[T]{c: c}, nil
}

// provider is implemented by generic library types that build the codec of
// their own instantiation, such as Option[T].
type provider interface {
	codec() Codec
}

var (
	registry   sync.Map // reflect.Type -> Codec
	providerIf = reflect.TypeFor[provider]()
)

// Register makes c the isomorphism of c.Type().
func Register(c Codec) error {
	if _, loaded := registry.LoadOrStore(c.Type(), c); loaded {
		return fmt.Errorf("%w: %v", ErrRegistered, c.Type())
	}
	return nil
}

// RegisterUnion declares the variants of the sealed interface U in order.
// Variants are structs or pointers to structs implementing U. Only pointer
// variants, or variants without fields, support EncodeMut.
func RegisterUnion[U any](variants ...U) error {
	types := make([]reflect.Type, len(variants))
	for i, v := range variants {
		types[i] = reflect.TypeOf(v)
		if types[i] == nil {
			return fmt.Errorf("%w: nil variant %d", layout.ErrBadVariant, i)
		}
	}
	return layout.RegisterUnion(reflect.TypeFor[U](), types...)
}

// CodecOf returns the isomorphism of t: a registered codec, the codec a
// library type provides for itself, or one derived from the layout of t.
func CodecOf(t reflect.Type) (Codec, error) {
	if c, ok := registry.Load(t); ok {
		return c.(Codec), nil
	}
	var c Codec
	if t != nil && t.Kind() != reflect.Interface && t.Implements(providerIf) {
		c = reflect.Zero(t).Interface().(provider).codec()
	} else {
		l, err := layout.Of(t)
		if err != nil {
			return nil, err
		}
		c = newDerivedCodec(l)
	}
	actual, _ := registry.LoadOrStore(t, c)
	return actual.(Codec), nil
}

// For returns the isomorphism of T.
func For[T any]() (Iso[T], error) {
	c, err := CodecOf(reflect.TypeFor[T]())
	if err != nil {
		return Iso[T]{}, err
	}
	return Iso[T]{c: c}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any]() Iso[T] {
	iso, err := For[T]()
	if err != nil {
		panic(err)
	}
	return iso
}
