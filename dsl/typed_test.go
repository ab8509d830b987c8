package dsl_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	wirebind "github.com/reoring/wirebind"
	g "github.com/reoring/wirebind/dsl"
)

type price struct {
	Cents    int64  `bind:"cents"`
	Currency string `bind:"currency"`
}

type product struct {
	Name      string    `bind:"name"`
	Price     price     `bind:"price"`
	Ratio     float64   `bind:"ratio"`
	Label     string    `bind:"label"`
	UpdatedAt time.Time `bind:"updated_at"`
}

func productRecord() *g.RecordBinding {
	return g.Record().Field(
		g.Text("name"),
		g.Integer("cents").Key("price.amount").Source("price.cents").Multiply(100),
		g.Text("currency").Key("price.currency").Source("price.currency"),
		g.Decimal("ratio"),
		g.Decimal("label"),
		g.Timestamp("updated_at"),
	).MustBuild()
}

func TestDecode_Struct(t *testing.T) {
	p, err := g.Decode[product](context.Background(), productRecord(), map[string]any{
		"name":       "tea",
		"price":      map[string]any{"amount": json.Number("12.50"), "currency": "EUR"},
		"ratio":      json.Number("0.5"),
		"label":      "1.25",
		"updated_at": "2024-05-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "tea" || p.Price.Cents != 1250 || p.Price.Currency != "EUR" {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Ratio != 0.5 || p.Label != "1.25" {
		t.Fatalf("decimal hook: %+v", p)
	}
	if !p.UpdatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp: %v", p.UpdatedAt)
	}
}

func TestDecode_PropagatesBindErrors(t *testing.T) {
	_, err := g.Decode[product](context.Background(), productRecord(), map[string]any{"name": "tea"})
	if wirebind.KindOf(err) != wirebind.KindAggregate {
		t.Fatalf("expected aggregate failure, got %v", err)
	}
}
