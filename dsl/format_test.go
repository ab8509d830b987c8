package dsl_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"

	g "github.com/reoring/wirebind/dsl"
)

func mustFormatter(t *testing.T, name string) g.Formatter {
	t.Helper()
	f, err := g.LookupFormatter(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return f
}

func TestFormatters(t *testing.T) {
	d, _, _ := apd.NewFromString("12.5")
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"fixed:2", 12.5, "12.50"},
		{"fixed:2", json.Number("1.005"), "1.01"},
		{"fixed:0", d, "13"},
		{"fixed:2", "n/a", "n/a"},
		{"string", d, "12.5"},
		{"string", int64(7), "7"},
		{"string", 0.25, "0.25"},
		{"int", 12.9, int64(12)},
		{"int", d, int64(12)},
		{"float", json.Number("0.25"), 0.25},
		{"upper", "ab", "AB"},
		{"lower", "AB", "ab"},
		{"upper", 3, 3},
	}
	for _, c := range cases {
		if got := mustFormatter(t, c.name)(c.in); got != c.want {
			t.Fatalf("%s(%v): want %#v got %#v", c.name, c.in, c.want, got)
		}
	}
}

func TestLookupFormatter_Unknown(t *testing.T) {
	for _, name := range []string{"bogus", "fixed:x", "fixed:-1"} {
		if _, err := g.LookupFormatter(name); !errors.Is(err, g.ErrInvalidDefinition) {
			t.Fatalf("%s: expected definition error, got %v", name, err)
		}
	}
}
