package algtype

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// boolShape is Sum<One, Sum<One, Zero>>: false, then true.
var boolShape = SumOfProducts(nil, nil)

func init() {
	_, err := Define(boolShape, Funcs[bool]{
		Encode: func(b bool) Repr {
			if b {
				return Variant(1, One{})
			}
			return Variant(0, One{})
		},
		Decode: func(r Repr) bool {
			i, _ := Split(r)
			switch i {
			case 0:
				return false
			case 1:
				return true
			}
			panic(fmt.Errorf("%w: variant %d of bool", ErrMalformed, i))
		},
	})
	if err != nil {
		panic(err)
	}
}

// Option is an optional value: None, then Some(T).
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns an empty Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

func (o Option[T]) IsSome() bool { return o.ok }

// Or returns the value, or def if o is None.
func (o Option[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// MarshalJSON encodes None as null and Some(v) as v.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (Option[T]) codec() Codec {
	return NewCodec(SumOfProducts(nil, []reflect.Type{reflect.TypeFor[T]()}), Funcs[Option[T]]{
		Encode: func(o Option[T]) Repr {
			if !o.ok {
				return Variant(0, One{})
			}
			return Variant(1, Fields(o.value))
		},
		Decode: func(r Repr) Option[T] {
			i, rest := Split(r)
			switch i {
			case 0:
				return None[T]()
			case 1:
				return Some(cast[T](single(rest)))
			}
			panic(fmt.Errorf("%w: variant %d of Option", ErrMalformed, i))
		},
		Ref: func(o *Option[T]) Repr {
			if !o.ok {
				return Variant(0, One{})
			}
			return Variant(1, Fields(&o.value))
		},
	})
}

// Result holds either an error value E or a success value T. Err values
// order before Ok values.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Ok returns a successful Result.
func Ok[T, E any](v T) Result[T, E] { return Result[T, E]{value: v, ok: true} }

// Err returns a failed Result.
func Err[T, E any](e E) Result[T, E] { return Result[T, E]{err: e} }

func (r Result[T, E]) IsOk() bool { return r.ok }

// Value returns the success value and whether r is Ok.
func (r Result[T, E]) Value() (T, bool) { return r.value, r.ok }

// Failure returns the error value and whether r is Err.
func (r Result[T, E]) Failure() (E, bool) { return r.err, !r.ok }

func (r Result[T, E]) String() string {
	if r.ok {
		return fmt.Sprintf("Ok(%v)", r.value)
	}
	return fmt.Sprintf("Err(%v)", r.err)
}

type resultJSON[T, E any] struct {
	Ok  *T `json:"ok,omitempty"`
	Err *E `json:"err,omitempty"`
}

// MarshalJSON encodes Ok(v) as {"ok": v} and Err(e) as {"err": e}.
func (r Result[T, E]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(resultJSON[T, E]{Ok: &r.value})
	}
	return json.Marshal(resultJSON[T, E]{Err: &r.err})
}

func (r *Result[T, E]) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["ok"]; ok {
		var x T
		if err := json.Unmarshal(v, &x); err != nil {
			return err
		}
		*r = Ok[T, E](x)
		return nil
	}
	if v, ok := raw["err"]; ok {
		var e E
		if err := json.Unmarshal(v, &e); err != nil {
			return err
		}
		*r = Err[T](e)
		return nil
	}
	return errors.New(`algtype: result needs an "ok" or "err" key`)
}

func (Result[T, E]) codec() Codec {
	shape := SumOfProducts([]reflect.Type{reflect.TypeFor[E]()}, []reflect.Type{reflect.TypeFor[T]()})
	return NewCodec(shape, Funcs[Result[T, E]]{
		Encode: func(r Result[T, E]) Repr {
			if r.ok {
				return Variant(1, Fields(r.value))
			}
			return Variant(0, Fields(r.err))
		},
		Decode: func(r Repr) Result[T, E] {
			i, rest := Split(r)
			switch i {
			case 0:
				return Err[T](cast[E](single(rest)))
			case 1:
				return Ok[T, E](cast[T](single(rest)))
			}
			panic(fmt.Errorf("%w: variant %d of Result", ErrMalformed, i))
		},
		Ref: func(r *Result[T, E]) Repr {
			if r.ok {
				return Variant(1, Fields(&r.value))
			}
			return Variant(0, Fields(&r.err))
		},
	})
}

func single(r Repr) any {
	heads := Heads(r)
	if len(heads) != 1 {
		panic(fmt.Errorf("%w: %d fields, want 1", ErrMalformed, len(heads)))
	}
	return heads[0]
}

// Pair is a two-field tuple. Its isomorphism is derived.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is a three-field tuple. Its isomorphism is derived.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// PairOf returns Pair{a, b}.
func PairOf[A, B any](a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} }

// TripleOf returns Triple{a, b, c}.
func TripleOf[A, B, C any](a A, b B, c C) Triple[A, B, C] {
	return Triple[A, B, C]{First: a, Second: b, Third: c}
}
