package catalog

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/mesh-intelligence/algtype/pkg/algtype"
)

var algtypePkg = reflect.TypeFor[algtype.Option[bool]]().PkgPath()

// newReflector returns a reflector producing inline schemas for the JSON
// syntax of domain values: integers carry their bounds, Option is nullable
// and Result is an object holding exactly one of "ok" or "err".
func newReflector() *jsonschema.Reflector {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	r.Mapper = func(t reflect.Type) *jsonschema.Schema { return mapType(r, t) }
	return r
}

// schemaOf reflects the value syntax of t into a root schema.
func schemaOf(t reflect.Type) *jsonschema.Schema {
	return newReflector().ReflectFromType(t)
}

func mapType(r *jsonschema.Reflector, t reflect.Type) *jsonschema.Schema {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		lo := int64(-1) << (t.Bits() - 1)
		return &jsonschema.Schema{
			Type:    "integer",
			Minimum: json.Number(strconv.FormatInt(lo, 10)),
			Maximum: json.Number(strconv.FormatInt(^lo, 10)),
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &jsonschema.Schema{
			Type:    "integer",
			Minimum: "0",
			Maximum: json.Number(strconv.FormatUint(^uint64(0)>>(64-t.Bits()), 10)),
		}
	case reflect.Struct:
		if t.PkgPath() != algtypePkg {
			return nil
		}
		switch {
		case strings.HasPrefix(t.Name(), "Option["):
			v, _ := t.FieldByName("value")
			return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{{Type: "null"}, inline(r, v.Type)}}
		case strings.HasPrefix(t.Name(), "Result["):
			v, _ := t.FieldByName("value")
			e, _ := t.FieldByName("err")
			return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
				member("err", inline(r, e.Type)),
				member("ok", inline(r, v.Type)),
			}}
		}
	}
	return nil
}

// inline reflects t as a nested schema.
func inline(r *jsonschema.Reflector, t reflect.Type) *jsonschema.Schema {
	s := r.ReflectFromType(t)
	s.Version = ""
	s.ID = ""
	return s
}

// member is an object with the single required property key.
func member(key string, s *jsonschema.Schema) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set(key, s)
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             []string{key},
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// enumSchema lists the values of a domain written as strings.
func enumSchema(names []any) *jsonschema.Schema {
	return &jsonschema.Schema{Version: jsonschema.Version, Type: "string", Enum: names}
}
