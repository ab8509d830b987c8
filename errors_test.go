package wirebind_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	wirebind "github.com/reoring/wirebind"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := wirebind.Issues{
		{Path: "/a", Code: wirebind.CodeRequired},
		{Path: "/b", Code: wirebind.CodeInvalidType},
		{Path: "/c", Code: wirebind.CodeNull},
		{Path: "/d", Code: wirebind.CodeBlank},
	}
	msg := iss.Error()
	if !strings.HasPrefix(msg, "required at /a; invalid_type at /b") || !strings.Contains(msg, "total 4") {
		t.Fatalf("unexpected summary %q", msg)
	}
}

func TestRebase(t *testing.T) {
	child := wirebind.Issues{{Path: "/", Code: wirebind.CodeRequired}, {Path: "/x", Code: wirebind.CodeNull}}
	got := wirebind.Rebase(wirebind.Root().Path("price.amount"), child)
	if got[0].Path != "/price/amount" || got[1].Path != "/price/amount/x" {
		t.Fatalf("unexpected paths %+v", got)
	}
	plain := wirebind.Rebase(wirebind.Root().Index(2), errors.New("boom"))
	if plain[0].Path != "/2" || plain[0].Code != wirebind.CodeParseError {
		t.Fatalf("plain error should become parse_error, got %+v", plain)
	}
	if wirebind.Rebase(wirebind.Root(), nil) != nil {
		t.Fatalf("nil error should rebase to nil")
	}
}

func TestPathRef_Escaping(t *testing.T) {
	p := wirebind.Root().Field("a/b").Field("c~d").Index(0)
	if p.Pointer() != "/a~1b/c~0d/0" {
		t.Fatalf("unexpected pointer %s", p.Pointer())
	}
	if wirebind.At("/x/y").Field("z").Pointer() != "/x/y/z" {
		t.Fatalf("At should parse pointers")
	}
}

func TestPathRef_SiblingsDoNotShare(t *testing.T) {
	base := wirebind.Root().Path("order.lines")
	a, b := base.Index(0), base.Index(1)
	if a.Pointer() != "/order/lines/0" || b.Pointer() != "/order/lines/1" {
		t.Fatalf("siblings interfere: %s %s", a.Pointer(), b.Pointer())
	}
	if base.Pointer() != "/order/lines" || wirebind.Root().Pointer() != "/" {
		t.Fatalf("base changed: %s", base.Pointer())
	}
}

func TestRecordError_Views(t *testing.T) {
	re := &wirebind.RecordError{Fields: []wirebind.FieldError{
		{Name: "amount", Key: "price.amount", Err: wirebind.Fail(wirebind.CodeInvalidType, "")},
		{Name: "tag", Key: "tag", Err: wirebind.Fail(wirebind.CodeCustom, "")},
	}}
	if !strings.Contains(re.Error(), "amount, tag") {
		t.Fatalf("unexpected message %q", re.Error())
	}
	iss, ok := wirebind.AsIssues(re)
	if !ok || len(iss) != 2 || iss[0].Path != "/price/amount" || iss[1].Path != "/tag" {
		t.Fatalf("unexpected issues %+v", iss)
	}
	if d, ok := re.Detail("tag"); !ok || wirebind.KindOf(d) != wirebind.KindCustomValidation {
		t.Fatalf("tag detail should be custom validation")
	}
	var target wirebind.Issues
	if !errors.As(re, &target) {
		t.Fatalf("field issues should be reachable through Unwrap")
	}
}

func TestListError_Views(t *testing.T) {
	le := &wirebind.ListError{Items: []error{nil, wirebind.Fail(wirebind.CodeRequired, ""), nil}}
	if fmt.Sprint(le.Failed()) != "[1]" {
		t.Fatalf("unexpected failed %v", le.Failed())
	}
	iss, _ := wirebind.AsIssues(le)
	if len(iss) != 1 || iss[0].Path != "/1" {
		t.Fatalf("unexpected issues %+v", iss)
	}
	if len(le.Unwrap()) != 1 {
		t.Fatalf("unwrap should skip nil slots")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want wirebind.ErrorKind
	}{
		{nil, wirebind.KindUnknown},
		{errors.New("x"), wirebind.KindUnknown},
		{wirebind.Fail(wirebind.CodeTooBig, ""), wirebind.KindCoercion},
		{wirebind.Fail(wirebind.CodeCustom, ""), wirebind.KindCustomValidation},
		{wirebind.NewShapeError("object", 3), wirebind.KindShape},
		{wirebind.NewPolicyError(wirebind.CodeEmpty, nil), wirebind.KindShape},
		{&wirebind.RecordError{Fields: []wirebind.FieldError{{Name: "a", Err: wirebind.NewShapeError("object", 1)}}}, wirebind.KindAggregate},
		{fmt.Errorf("wrapped: %w", &wirebind.ListError{}), wirebind.KindAggregate},
	}
	for i, c := range cases {
		if got := wirebind.KindOf(c.err); got != c.want {
			t.Fatalf("case %d: want %s got %s", i, c.want, got)
		}
	}
}

func TestShapeError(t *testing.T) {
	se := wirebind.NewShapeError("array", map[string]any{})
	if se.Got != "object" || !strings.Contains(se.Error(), "expected array, got object") {
		t.Fatalf("unexpected shape error %v", se)
	}
	iss, ok := wirebind.AsIssues(se)
	if !ok || iss[0].Path != "/" || iss[0].Code != wirebind.CodeInvalidType {
		t.Fatalf("unexpected issues %+v", iss)
	}
}
