package scalar

import (
	"context"
	"encoding/json"
	"strings"

	js "github.com/reoring/wirebind/jsonschema"
)

var (
	truthy = map[string]struct{}{"t": {}, "y": {}, "yes": {}, "true": {}, "on": {}, "1": {}}
	falsy  = map[string]struct{}{"f": {}, "n": {}, "no": {}, "false": {}, "off": {}, "0": {}}
)

// BooleanCoder accepts booleans, 1/0 and the usual textual spellings
// (true/false, yes/no, on/off, t/f, y/n), case-insensitively.
type BooleanCoder struct{}

func Boolean() *BooleanCoder { return &BooleanCoder{} }

func (c *BooleanCoder) Kind() string { return "boolean" }

func (c *BooleanCoder) Coerce(ctx context.Context, v any) (any, error) {
	if b, ok := toBool(v); ok {
		return b, nil
	}
	return nil, invalidType("boolean", v)
}

func (c *BooleanCoder) Serialize(ctx context.Context, v any) any {
	if b, ok := toBool(v); ok {
		return b
	}
	return v
}

func (c *BooleanCoder) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		return numBool(float64(t))
	case int64:
		return numBool(float64(t))
	case float64:
		return numBool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return false, false
		}
		return numBool(f)
	case string:
		s := strings.ToLower(t)
		if _, ok := truthy[s]; ok {
			return true, true
		}
		if _, ok := falsy[s]; ok {
			return false, true
		}
	}
	return false, false
}

func numBool(f float64) (bool, bool) {
	switch f {
	case 1:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}
