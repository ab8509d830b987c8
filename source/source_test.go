package source

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestJSON_KeepsNumbersExact(t *testing.T) {
	v, err := JSON([]byte(`{"price":{"amount":12.50},"qty":3}`))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	m := v.(map[string]any)
	amt := m["price"].(map[string]any)["amount"]
	n, ok := amt.(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", amt)
	}
	if n.String() != "12.50" {
		t.Fatalf("number text changed: %s", n)
	}
}

func TestJSON_TrailingData(t *testing.T) {
	if _, err := JSON([]byte(`{} {}`)); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
	if _, err := JSON([]byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestYAML_NormalizesKeys(t *testing.T) {
	v, err := YAML([]byte("a:\n  1: x\n  b: [1, 2]\n"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	a := v.(map[string]any)["a"].(map[string]any)
	if a["1"] != "x" {
		t.Fatalf("integer key not normalized: %#v", a)
	}
	if len(a["b"].([]any)) != 2 {
		t.Fatalf("unexpected list: %#v", a["b"])
	}
}

func TestMarshalJSON_Indent(t *testing.T) {
	b, err := MarshalJSON(map[string]any{"a": 1}, true)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"a\": 1") {
		t.Fatalf("expected indented output, got %s", b)
	}
}

func TestMarshalJSON_DecimalsAreNumbers(t *testing.T) {
	d, _, _ := apd.NewFromString("12.50")
	in := map[string]any{"price": map[string]any{"amount": d}, "list": []any{d}}
	b, err := MarshalJSON(in, false)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	want := `{"list":[12.50],"price":{"amount":12.50}}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
	if _, ok := in["price"].(map[string]any)["amount"].(*apd.Decimal); !ok {
		t.Fatalf("input was modified")
	}
}
