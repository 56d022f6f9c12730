package gradcheck

import (
	"fmt"

	"github.com/sw965/coutils/tensor"
)

// Report is the outcome of comparing an analytic gradient with a numeric one.
type Report struct {
	Numeric    tensor.Dense
	RelError   float64
	MaxAbsDiff float64
}

func (r Report) Passed(tol float64) bool {
	return r.RelError <= tol
}

// Check estimates the gradient of f at x and compares it with analytic.
func Check(f Func, x, analytic tensor.Dense, settings *Settings) (Report, error) {
	if analytic.N() != x.N() {
		return Report{}, fmt.Errorf("%w: analytic gradient %v has %d elements, x %v has %d",
			ErrShapeMismatch, analytic.Shape, analytic.N(), x.Shape, x.N())
	}

	numeric, err := NumericGradient(f, x, settings)
	if err != nil {
		return Report{}, err
	}

	relErr, err := RelError(numeric, analytic, DefaultEps)
	if err != nil {
		return Report{}, err
	}

	diff, err := numeric.Sub(analytic)
	if err != nil {
		return Report{}, err
	}
	maxAbsDiff := 0.0
	if diff.N() != 0 {
		maxAbsDiff = diff.Abs().Max()
	}

	return Report{
		Numeric:    numeric,
		RelError:   relErr,
		MaxAbsDiff: maxAbsDiff,
	}, nil
}
