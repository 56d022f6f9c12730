// Package gradcheck estimates gradients by finite differences so that
// hand-written backward passes can be checked against them.
package gradcheck

import (
	"fmt"
	"math"

	"github.com/sw965/coutils/tensor"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultStep = 1e-5
	DefaultEps  = 1e-8
)

// Func is a function under test. It must be pure: calling it twice with the
// same input returns the same output.
type Func func(x tensor.Dense) (tensor.Dense, error)

// ScalarFunc is a scalar loss of its input.
type ScalarFunc func(x tensor.Dense) (float64, error)

// Settings configures NumericGradient and NumericJacobian. A nil *Settings
// selects the central formula with DefaultStep and an all-ones upstream gradient.
type Settings struct {
	// Upstream is dL/dy. It must hold as many elements as f(x).
	// nil means all ones.
	Upstream *tensor.Dense

	// Step is h. Zero means DefaultStep.
	Step float64

	// Formula is a first derivative finite difference formula.
	// The zero value means fd.Central. The formula's own Step is ignored.
	Formula fd.Formula
}

func isZeroFormula(f fd.Formula) bool {
	return f.Stencil == nil && f.Derivative == 0 && f.Step == 0
}

func (s *Settings) resolve() (fd.Formula, float64, error) {
	formula := fd.Central
	step := DefaultStep
	if s == nil {
		return formula, step, nil
	}

	if s.Step < 0 || math.IsNaN(s.Step) || math.IsInf(s.Step, 0) {
		return fd.Formula{}, 0.0, fmt.Errorf("%w: got %v", ErrBadStep, s.Step)
	}
	if s.Step > 0 {
		step = s.Step
	}

	if !isZeroFormula(s.Formula) {
		if s.Formula.Derivative != 1 || len(s.Formula.Stencil) == 0 {
			return fd.Formula{}, 0.0, fmt.Errorf("%w: derivative order %d, %d stencil points",
				ErrBadFormula, s.Formula.Derivative, len(s.Formula.Stencil))
		}
		formula = s.Formula
	}
	return formula, step, nil
}

func (s *Settings) upstream(y tensor.Dense) (tensor.Dense, error) {
	if s == nil || s.Upstream == nil {
		return tensor.NewOnesLike(y), nil
	}
	dy := *s.Upstream
	if dy.N() != y.N() {
		return tensor.Dense{}, fmt.Errorf("%w: upstream gradient %v has %d elements, f(x) %v has %d",
			ErrShapeMismatch, dy.Shape, dy.N(), y.Shape, y.N())
	}
	return dy, nil
}

// NumericGradient estimates dL/dx = dy · ∂f/∂x at x, one element of x at a
// time. Each element of x is overwritten with the stencil points and restored
// to its exact original value before the next one, so x must not be read or
// written concurrently during the call. The returned tensor has x's shape.
//
// Errors from f are returned wrapped and abort the estimate. x is restored
// before returning in every case.
func NumericGradient(f Func, x tensor.Dense, settings *Settings) (tensor.Dense, error) {
	formula, step, err := settings.resolve()
	if err != nil {
		return tensor.Dense{}, err
	}

	y, err := f(x)
	if err != nil {
		return tensor.Dense{}, fmt.Errorf("gradcheck: evaluating f at x: %w", err)
	}
	// f may hand back x itself or a buffer it reuses.
	y = y.Clone()

	dy, err := settings.upstream(y)
	if err != nil {
		return tensor.Dense{}, err
	}

	dx := tensor.NewZerosLike(x)
	dydxi := make([]float64, y.N())
	for i := range x.Data {
		if err := partial(dydxi, f, x, i, y, formula, step); err != nil {
			return tensor.Dense{}, err
		}
		dx.Data[i] = floats.Dot(dy.Data, dydxi)
	}
	return dx, nil
}

// partial stores ∂f/∂x[i] into dst.
func partial(dst []float64, f Func, x tensor.Dense, i int, origin tensor.Dense, formula fd.Formula, step float64) error {
	orig := x.Data[i]
	defer func() { x.Data[i] = orig }()

	for k := range dst {
		dst[k] = 0.0
	}

	for _, pt := range formula.Stencil {
		if pt.Loc == 0 {
			floats.AddScaled(dst, pt.Coeff, origin.Data)
			continue
		}

		x.Data[i] = orig + pt.Loc*step
		yp, err := f(x)
		if err != nil {
			return fmt.Errorf("gradcheck: evaluating f with x[%d] = %v: %w", i, x.Data[i], err)
		}
		if yp.N() != len(dst) {
			return fmt.Errorf("%w: f returned %d elements at x[%d] perturbed, %d at x",
				ErrShapeMismatch, yp.N(), i, len(dst))
		}
		// 次の摂動で yp が x と同じバッファを指している可能性があるため、ここで足し込む。
		floats.AddScaled(dst, pt.Coeff, yp.Data)
	}

	for k := range dst {
		dst[k] /= step
	}
	return nil
}
