package dsl_test

import (
	"encoding/json"
	"reflect"
	"testing"

	g "github.com/reoring/wirebind/dsl"
	"github.com/reoring/wirebind/scalar"
)

// normalize marshals v to JSON and back to remove ordering effects.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func TestJSONSchema_Record(t *testing.T) {
	rec := g.Record().Field(
		g.Text("name"),
		g.Integer("cents").Key("price.amount").Multiply(100),
		g.NewField("qty", scalar.Integer().Min(1)).Optional(),
		g.Boolean("active").Default(true),
		g.Timestamp("at").Nullable().Optional(),
	).UnknownStrict().MustBuild()
	s, err := rec.JSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	got := normalize(s)
	want := normalize(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"price": map[string]any{
				"type":       "object",
				"properties": map[string]any{"amount": map[string]any{"type": "number"}},
				"required":   []any{"amount"},
			},
			"qty":    map[string]any{"type": "integer", "minimum": 1},
			"active": map[string]any{"type": "boolean", "default": true},
			"at":     map[string]any{"type": "string", "format": "date-time", "nullable": true},
		},
		"required":             []any{"name", "price"},
		"additionalProperties": false,
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestJSONSchema_List(t *testing.T) {
	rec := g.Record().Field(g.Text("name")).MustBuild()
	s, err := g.List[map[string]any](rec, g.AllowEmpty(false), g.MaxItems(10)).JSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if s.Type != "array" || *s.MinItems != 1 || *s.MaxItems != 10 || s.Items.Type != "object" {
		t.Fatalf("unexpected list schema %+v", s)
	}
}
