// Package catalog names the demonstration domains served by the algtype CLI.
package catalog

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/mesh-intelligence/algtype/pkg/algtype"
	"github.com/mesh-intelligence/algtype/pkg/countenum"
	"github.com/mesh-intelligence/algtype/pkg/powermap"
)

// ErrUnknownDomain is returned by Lookup for names not in the catalog.
var ErrUnknownDomain = errors.New("unknown domain")

// ErrBadValue is returned by Parse when the input is not a value of the domain.
var ErrBadValue = errors.New("invalid value")

// Entry is one named domain.
type Entry struct {
	Name    string
	Summary string
	Domain  countenum.Domain

	parse  func(data []byte) (any, error)
	format func(x any) any
	table  func() ([]Row, error)
	schema func() *jsonschema.Schema
}

// Row is one key of a dense table together with its enumeration index.
type Row struct {
	Key   any
	Index uint64
}

// Type returns the Go type enumerated by the entry.
func (e *Entry) Type() reflect.Type { return e.Domain.Type() }

// Shape returns the encoding shape of the entry's type. Types enumerated as
// plain leaves, such as integers, are shown as a single one-field variant.
func (e *Entry) Shape() *algtype.Shape {
	if c, err := algtype.CodecOf(e.Type()); err == nil {
		return c.Shape()
	}
	return algtype.SumOfProducts([]reflect.Type{e.Type()})
}

// Parse decodes a JSON value of the domain and returns a pointer to it.
func (e *Entry) Parse(data []byte) (any, error) {
	p, err := e.parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrBadValue, e.Name, err)
	}
	return p, nil
}

// Format returns a JSON-ready form of x, a value of the domain.
func (e *Entry) Format(x any) any { return e.format(x) }

// Schema returns the JSON Schema of the values accepted by Parse.
func (e *Entry) Schema() *jsonschema.Schema { return e.schema() }

// Table lays out the whole domain as a dense map from every value to its
// index. Domains with a leaf wider than powermap.MaxLeafKeys are rejected.
func (e *Entry) Table() ([]Row, error) { return e.table() }

// tableOf fills a total map keyed by T with the index of each key.
func tableOf[T any](d countenum.Domain) func() ([]Row, error) {
	return func() ([]Row, error) {
		enum, err := countenum.Typed[T](d)
		if err != nil {
			return nil, err
		}
		m, err := powermap.FromFunc(func(k T) uint64 {
			// Keys come from the same finite domain, so Index always succeeds.
			i, _ := enum.Index(k)
			return i
		})
		if err != nil {
			return nil, err
		}
		rows := make([]Row, 0, m.Len())
		for k, i := range m.All() {
			rows = append(rows, Row{Key: k, Index: i})
		}
		return rows, nil
	}
}

var entries []*Entry

// All returns the entries in name order.
func All() []*Entry { return slices.Clone(entries) }

// Lookup returns the entry named name.
func Lookup(name string) (*Entry, error) {
	i, ok := slices.BinarySearchFunc(entries, name, func(e *Entry, name string) int {
		return cmp.Compare(e.Name, name)
	})
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDomain, name)
	}
	return entries[i], nil
}

func mustDomain[T any]() countenum.Domain {
	d, err := countenum.DomainOf(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return d
}

// jsonEntry reads and writes values of T as their JSON encoding.
func jsonEntry[T any](name, summary string) *Entry {
	d := mustDomain[T]()
	return &Entry{
		Name:    name,
		Summary: summary,
		Domain:  d,
		parse: func(data []byte) (any, error) {
			var x T
			if err := json.Unmarshal(data, &x); err != nil {
				return nil, err
			}
			return &x, nil
		},
		format: func(x any) any { return x },
		table:  tableOf[T](d),
		schema: func() *jsonschema.Schema { return schemaOf(reflect.TypeFor[T]()) },
	}
}

// textEntry reads and writes values of T as the JSON string of their
// fmt.Stringer form. Parsing searches the domain, which must be small.
func textEntry[T fmt.Stringer](name, summary string) *Entry {
	d := mustDomain[T]()
	return &Entry{
		Name:    name,
		Summary: summary,
		Domain:  d,
		parse: func(data []byte) (any, error) {
			var s string
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, err
			}
			var found any
			d.Each(func(x any) bool {
				if x.(T).String() == s {
					found = d.Ref(x)
					return false
				}
				return true
			})
			if found == nil {
				return nil, fmt.Errorf("no value %q", s)
			}
			return found, nil
		},
		format: func(x any) any { return x.(T).String() },
		table:  tableOf[T](d),
		schema: func() *jsonschema.Schema {
			var names []any
			d.Each(func(x any) bool {
				names = append(names, x.(T).String())
				return true
			})
			return enumSchema(names)
		},
	}
}

func init() {
	if err := algtype.RegisterUnion[Signal](Off{}, On{}, Dim{}); err != nil {
		panic(err)
	}
	entries = []*Entry{
		jsonEntry[bool]("bool", "false, true"),
		jsonEntry[int8]("int8", "signed 8-bit integers"),
		jsonEntry[uint8]("uint8", "unsigned 8-bit integers"),
		jsonEntry[int16]("int16", "signed 16-bit integers"),
		jsonEntry[algtype.Option[bool]]("option-bool", "null or a bool"),
		jsonEntry[algtype.Pair[bool, bool]]("pair-bool", `{"First": bool, "Second": bool}`),
		jsonEntry[algtype.Result[bool, uint8]]("result-bool-uint8", `{"ok": bool} or {"err": uint8}`),
		jsonEntry[[3]bool]("bits3", "three bools"),
		jsonEntry[algtype.Option[algtype.Pair[bool, int8]]]("option-pair-bool-int8", "null or a bool and an int8"),
		textEntry[Signal]("signal", `"off", "on", "dim(cool)", "dim(warm)"`),
		jsonEntry[uint64]("uint64", "unsigned 64-bit integers"),
		jsonEntry[algtype.Pair[uint64, bool]]("pair-uint64-bool", "a domain too large to count"),
	}
	slices.SortFunc(entries, func(a, b *Entry) int { return cmp.Compare(a.Name, b.Name) })
}
