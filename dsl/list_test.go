package dsl_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	wirebind "github.com/reoring/wirebind"
	g "github.com/reoring/wirebind/dsl"
	"github.com/reoring/wirebind/scalar"
)

func ageRecord() *g.RecordBinding {
	return g.Record().Field(g.Integer("age")).MustBuild()
}

func TestList_PartialFailureAggregation(t *testing.T) {
	rec := ageRecord()
	_, err := rec.BindMany(context.Background(), []any{
		map[string]any{"age": 1},
		map[string]any{"age": "bad"},
		map[string]any{"age": 3},
	})
	var le *wirebind.ListError
	if !errors.As(err, &le) {
		t.Fatalf("expected ListError, got %v", err)
	}
	if len(le.Items) != 3 || le.Items[0] != nil || le.Items[2] != nil {
		t.Fatalf("unexpected slots %v", le.Items)
	}
	var re *wirebind.RecordError
	if !errors.As(le.Items[1], &re) {
		t.Fatalf("slot 1 should be a record error, got %v", le.Items[1])
	}
	if _, ok := re.Detail("age"); !ok || len(re.Fields) != 1 {
		t.Fatalf("slot 1 should only carry age, got %v", re)
	}
	if !reflect.DeepEqual(le.Failed(), []int{1}) {
		t.Fatalf("failed indexes %v", le.Failed())
	}
	iss, _ := wirebind.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/1/age" {
		t.Fatalf("unexpected issues %+v", iss)
	}
}

func TestList_ManyModeMatchesLoop(t *testing.T) {
	ctx := context.Background()
	rec := g.Record().Field(
		g.Text("name"),
		g.Integer("cents").Key("price").Multiply(100),
	).MustBuild()
	items := make([]any, 100)
	for i := range items {
		items[i] = map[string]any{"name": "item", "price": float64(i) / 4}
	}
	many, err := rec.BindMany(ctx, items)
	if err != nil {
		t.Fatalf("bind many: %v", err)
	}
	for i, it := range items {
		one, err := rec.Bind(ctx, it)
		if err != nil {
			t.Fatalf("bind %d: %v", i, err)
		}
		if !reflect.DeepEqual(one, many[i]) {
			t.Fatalf("item %d differs: %v vs %v", i, one, many[i])
		}
	}
	outs := rec.PresentMany(ctx, many).([]any)
	for i := range many {
		if !reflect.DeepEqual(outs[i], rec.Present(ctx, many[i])) {
			t.Fatalf("export %d differs", i)
		}
	}
}

func TestList_ManyIsBuiltOnce(t *testing.T) {
	rec := ageRecord()
	if rec.Many() != rec.Many() {
		t.Fatalf("default list binding should be cached")
	}
	l, ok := rec.Many().(*g.ListBinding[map[string]any])
	if !ok || l.Child() != wirebind.Binder[map[string]any](rec) {
		t.Fatalf("default list binding should share the record binding")
	}
}

type lenientList struct{ child *g.RecordBinding }

func (l lenientList) Bind(ctx context.Context, v any) ([]map[string]any, error) {
	items, _ := v.([]any)
	var out []map[string]any
	for _, it := range items {
		if r, err := l.child.Bind(ctx, it); err == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l lenientList) Present(ctx context.Context, vs []map[string]any) any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = l.child.Present(ctx, v)
	}
	return out
}

func TestList_CustomFactory(t *testing.T) {
	rec := g.Record().Field(g.Integer("age")).
		ListFactory(func(child *g.RecordBinding, opts ...g.ListOption) wirebind.Binder[[]map[string]any] {
			return lenientList{child: child}
		}).
		MustBuild()
	if _, ok := rec.Many().(lenientList); !ok {
		t.Fatalf("declared factory should be used, got %T", rec.Many())
	}
	out, err := rec.BindMany(context.Background(), []any{map[string]any{"age": 1}, map[string]any{"age": "x"}})
	if err != nil || len(out) != 1 {
		t.Fatalf("lenient list: %v %v", out, err)
	}
}

func TestList_ShapeAndPolicy(t *testing.T) {
	ctx := context.Background()
	rec := ageRecord()
	cases := []struct {
		b    wirebind.Binder[[]map[string]any]
		in   any
		code string
	}{
		{rec.Many(), map[string]any{}, wirebind.CodeInvalidType},
		{rec.Many(g.AllowEmpty(false)), []any{}, wirebind.CodeEmpty},
		{rec.Many(g.MinItems(2)), []any{map[string]any{"age": 1}}, wirebind.CodeTooShort},
		{rec.Many(g.MaxItems(1)), []any{map[string]any{"age": 1}, map[string]any{"age": 2}}, wirebind.CodeTooLong},
	}
	for i, c := range cases {
		_, err := c.b.Bind(ctx, c.in)
		var se *wirebind.ShapeError
		if !errors.As(err, &se) || se.Code != c.code {
			t.Fatalf("case %d: expected %s shape error, got %v", i, c.code, err)
		}
	}
	if out, err := rec.BindMany(ctx, []any{}); err != nil || len(out) != 0 {
		t.Fatalf("empty allowed by default: %v %v", out, err)
	}
}

func TestList_FieldChild(t *testing.T) {
	ctx := context.Background()
	l := g.List[any](g.Integer("n").Multiply(10).MustBuild())
	out, err := l.Bind(ctx, []any{"1.5", 2})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !reflect.DeepEqual(out, []any{int64(15), int64(20)}) {
		t.Fatalf("unexpected %v", out)
	}
	_, err = l.Bind(ctx, []any{1, nil, "x"})
	var le *wirebind.ListError
	if !errors.As(err, &le) || !reflect.DeepEqual(le.Failed(), []int{1, 2}) {
		t.Fatalf("unexpected %v", err)
	}
}

func TestList_FailFast(t *testing.T) {
	ctx := wirebind.WithFailFast(context.Background(), true)
	_, err := ageRecord().BindMany(ctx, []any{map[string]any{"age": "x"}, map[string]any{"age": "y"}})
	var le *wirebind.ListError
	if !errors.As(err, &le) || len(le.Items) != 1 {
		t.Fatalf("expected stop after first failure, got %v", err)
	}
}

func TestListField_ScalarElements(t *testing.T) {
	rec := g.Record().Field(g.ListField("tags", scalar.Text())).MustBuild()
	_, err := rec.Bind(context.Background(), map[string]any{"tags": []any{"a", true}})
	iss, _ := wirebind.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/tags/1" {
		t.Fatalf("unexpected issues %+v", iss)
	}
}
