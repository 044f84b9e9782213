package catalog

import (
	"encoding/json"
	"testing"

	"github.com/mesh-intelligence/algtype/pkg/powermap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	e, err := Lookup("option-bool")
	require.NoError(t, err)
	n, ok := e.Domain.Card().Get()
	require.True(t, ok)
	assert.Equal(t, uint64(3), n)

	_, err = Lookup("float64")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestAllSorted(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestEdgesRoundTripThroughJSON(t *testing.T) {
	for _, e := range All() {
		t.Run(e.Name, func(t *testing.T) {
			first, ok := e.Domain.First()
			require.True(t, ok)
			last, ok := e.Domain.Last()
			require.True(t, ok)
			for _, x := range []any{first, last} {
				data, err := json.Marshal(e.Format(x))
				require.NoError(t, err)
				p, err := e.Parse(data)
				require.NoError(t, err, "parse %s", data)
				assert.Equal(t, x, e.Domain.Own(p))
			}
		})
	}
}

func TestSignal(t *testing.T) {
	e, err := Lookup("signal")
	require.NoError(t, err)

	var names []any
	e.Domain.Each(func(x any) bool {
		names = append(names, e.Format(x))
		return true
	})
	assert.Equal(t, []any{"off", "on", "dim(cool)", "dim(warm)"}, names)

	p, err := e.Parse([]byte(`"dim(warm)"`))
	require.NoError(t, err)
	i, ok := e.Domain.Index(p)
	require.True(t, ok)
	assert.Equal(t, uint64(3), i)

	_, err = e.Parse([]byte(`"bright"`))
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestShape(t *testing.T) {
	e, err := Lookup("int8")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Shape().Variants())

	e, err = Lookup("signal")
	require.NoError(t, err)
	assert.Equal(t, 3, e.Shape().Variants())
}

func TestTable(t *testing.T) {
	e, err := Lookup("option-bool")
	require.NoError(t, err)
	rows, err := e.Table()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, uint64(i), r.Index)
		x, ok := e.Domain.FromIndex(uint64(i))
		require.True(t, ok)
		assert.Equal(t, x, r.Key)
	}

	e, err = Lookup("uint64")
	require.NoError(t, err)
	_, err = e.Table()
	assert.ErrorIs(t, err, powermap.ErrKeyTooWide)
}

// schemaJSON renders the schema of the named entry as a generic JSON value.
func schemaJSON(t *testing.T, name string) map[string]any {
	t.Helper()
	e, err := Lookup(name)
	require.NoError(t, err)
	data, err := json.Marshal(e.Schema())
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func TestSchema(t *testing.T) {
	s := schemaJSON(t, "int8")
	assert.Equal(t, "integer", s["type"])
	assert.Equal(t, float64(-128), s["minimum"])
	assert.Equal(t, float64(127), s["maximum"])
	assert.Contains(t, s, "$schema")

	s = schemaJSON(t, "uint8")
	assert.Equal(t, float64(0), s["minimum"])
	assert.Equal(t, float64(255), s["maximum"])

	s = schemaJSON(t, "option-bool")
	assert.Equal(t, []any{
		map[string]any{"type": "null"},
		map[string]any{"type": "boolean"},
	}, s["anyOf"])

	s = schemaJSON(t, "pair-bool")
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, []any{"First", "Second"}, s["required"])

	s = schemaJSON(t, "bits3")
	assert.Equal(t, "array", s["type"])
	assert.Equal(t, float64(3), s["maxItems"])

	s = schemaJSON(t, "result-bool-uint8")
	require.Len(t, s["oneOf"], 2)
	assert.Equal(t, []any{"err"}, s["oneOf"].([]any)[0].(map[string]any)["required"])

	s = schemaJSON(t, "signal")
	assert.Equal(t, []any{"off", "on", "dim(cool)", "dim(warm)"}, s["enum"])
}
