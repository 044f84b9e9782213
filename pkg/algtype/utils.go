package algtype

import (
	"fmt"
	"reflect"
)

// Cast converts x to a U with an equal shape by decoding the encoding of x
// as a U, for example a Pair[int, int] into a [2]int.
func Cast[T, U any](x T) (U, error) {
	var zero U
	from, err := For[T]()
	if err != nil {
		return zero, err
	}
	to, err := For[U]()
	if err != nil {
		return zero, err
	}
	if !from.Shape().Equal(to.Shape()) {
		return zero, fmt.Errorf("%w: cannot cast %v to %v", ErrShapeMismatch, from.Shape(), to.Shape())
	}
	return to.Decode(from.Encode(x)), nil
}

// Singleton builds the one-field, one-variant type U holding x, for example
// a [1]T or a struct with a single field of type T.
func Singleton[T, U any](x T) (U, error) {
	var zero U
	to, err := For[U]()
	if err != nil {
		return zero, err
	}
	want := SumOfProducts([]reflect.Type{reflect.TypeFor[T]()})
	if !to.Shape().Equal(want) {
		return zero, fmt.Errorf("%w: %v is not a singleton of %v", ErrShapeMismatch, to.Shape(), reflect.TypeFor[T]())
	}
	return to.Decode(Variant(0, Fields(x))), nil
}

// VariantCount returns the number of variants of T. Plain aggregates have
// one.
func VariantCount[T any]() (int, error) {
	iso, err := For[T]()
	if err != nil {
		return 0, err
	}
	return iso.Shape().Variants(), nil
}
