package transform

import "fmt"

// Pipeline is an ordered list of steps. Forward runs them in order; Reverse
// runs the inverse of each step from last to first.
type Pipeline []Step

// Forward applies every step in declaration order. nil short-circuits.
func (p Pipeline) Forward(v any) (any, error) {
	for i, s := range p {
		if v == nil {
			return nil, nil
		}
		out, err := s.Apply(v)
		if err != nil {
			return nil, &StepError{Index: i, Step: s, Err: err}
		}
		v = out
	}
	return v, nil
}

// Reverse undoes Forward: inverse steps applied last to first.
func (p Pipeline) Reverse(v any) (any, error) {
	return p.Inverse().Forward(v)
}

// Inverse returns the pipeline whose Forward is p's Reverse.
func (p Pipeline) Inverse() Pipeline {
	out := make(Pipeline, len(p))
	for i, s := range p {
		out[len(p)-1-i] = s.Inverse()
	}
	return out
}

// WithPrecision returns a copy in which scale steps lacking a precision use prec.
func (p Pipeline) WithPrecision(prec uint32) Pipeline {
	out := make(Pipeline, len(p))
	for i, s := range p {
		out[i] = s.WithDefaultPrecision(prec)
	}
	return out
}

func (p Pipeline) String() string {
	return fmt.Sprint([]Step(p))
}

// StepError locates a failing step inside a pipeline.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("transform: step %d (%s): %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
