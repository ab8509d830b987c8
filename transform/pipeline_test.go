package transform_test

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"

	"github.com/reoring/wirebind/transform"
)

func TestPipeline_ForwardReverse(t *testing.T) {
	p := transform.Pipeline{
		transform.MustNew(transform.Multiply, 100, 0),
		transform.MustNew(transform.Add, 5, 0),
	}
	fwd, err := p.Forward("1.25")
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if fwd != int64(130) {
		t.Fatalf("forward: got %#v", fwd)
	}
	back, err := p.Reverse(fwd)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if back.(*apd.Decimal).String() != "1.25" {
		t.Fatalf("reverse: got %s", back)
	}
}

func TestPipeline_InverseOrder(t *testing.T) {
	p := transform.Pipeline{
		transform.MustNew(transform.Multiply, 10, 0),
		transform.MustNew(transform.Subtract, 2, 0),
	}
	inv := p.Inverse()
	if inv[0].Kind() != transform.Add || inv[1].Kind() != transform.Divide {
		t.Fatalf("unexpected inverse %s", inv)
	}
}

func TestPipeline_EmptyAndNil(t *testing.T) {
	var p transform.Pipeline
	if got, err := p.Forward(3); err != nil || got != 3 {
		t.Fatalf("empty pipeline should be identity, got %v %v", got, err)
	}
	p = transform.Pipeline{transform.MustNew(transform.Multiply, 10, 0)}
	if got, err := p.Forward(nil); err != nil || got != nil {
		t.Fatalf("nil should pass through, got %v %v", got, err)
	}
}

func TestPipeline_StepError(t *testing.T) {
	p := transform.Pipeline{
		transform.MustNew(transform.Add, 1, 0),
		transform.MustNew(transform.Multiply, 10, 0),
	}
	_, err := p.Forward(false)
	var se *transform.StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if se.Index != 0 || !errors.Is(err, transform.ErrNotNumeric) {
		t.Fatalf("unexpected step error %v", se)
	}
}

func TestPipeline_WithPrecision(t *testing.T) {
	p := transform.Pipeline{
		transform.MustNew(transform.Divide, 3, 0),
		transform.MustNew(transform.Divide, 3, 9),
		transform.MustNew(transform.Add, 1, 0),
	}.WithPrecision(4)
	if p[0].Precision() != 4 || p[1].Precision() != 9 || p[2].Precision() != 0 {
		t.Fatalf("unexpected precisions %s", p)
	}
}
