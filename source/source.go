// Package source turns wire bytes into the loose values the binders consume
// (map[string]any, []any, json.Number, string, bool, nil) and renders bound
// values back to bytes.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cockroachdb/apd/v3"
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrTrailingData reports bytes left after the first JSON value.
var ErrTrailingData = errors.New("source: trailing data after JSON value")

// JSON decodes a single JSON value. Numbers are kept as json.Number so that
// decimal transforms see the exact wire text.
func JSON(data []byte) (any, error) { return JSONReader(bytes.NewReader(data)) }

// JSONReader is like JSON but reads from r.
func JSONReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

// YAML decodes a single YAML document. Mapping keys are normalized to strings.
func YAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	return normalize(v), nil
}

// MarshalJSON renders v with go-json. Finite decimals render as exact JSON
// number literals; v itself is not modified.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	v = numbers(v)
	if indent {
		return j.MarshalIndent(v, "", "  ")
	}
	return j.Marshal(v)
}

// numbers copies the containers of v, replacing decimals with j.Number.
func numbers(v any) any {
	switch t := v.(type) {
	case *apd.Decimal:
		if t != nil && t.Form == apd.Finite {
			return j.Number(t.Text('f'))
		}
	case apd.Decimal:
		return numbers(&t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = numbers(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = numbers(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = numbers(e)
		}
		return out
	}
	return v
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	}
	return v
}
