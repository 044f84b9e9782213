package cli

import (
	"encoding/json"
	"io"

	"github.com/mesh-intelligence/algtype/internal/catalog"
)

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// valueText renders x, a value of e, as compact JSON for text output.
func valueText(e *catalog.Entry, x any) (string, error) {
	return compact(e.Format(x))
}

func compact(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
