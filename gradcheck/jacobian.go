package gradcheck

import (
	"fmt"

	"github.com/sw965/coutils/tensor"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// NumericJacobian returns the m×n Jacobian of f at x, where n is the number of
// elements of x and m the number of elements of f(x). x is not modified.
// Settings.Upstream is ignored.
func NumericJacobian(f Func, x tensor.Dense, settings *Settings) (*mat.Dense, error) {
	formula, step, err := settings.resolve()
	if err != nil {
		return nil, err
	}

	y, err := f(x)
	if err != nil {
		return nil, fmt.Errorf("gradcheck: evaluating f at x: %w", err)
	}
	m, n := y.N(), x.N()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("%w: f(x) has %d elements, x has %d", ErrEmptyInput, m, n)
	}
	origin := y.Clone().Data

	// fd.Jacobian cannot stop early, so the first failure is kept and later calls are skipped.
	var evalErr error
	vecFunc := func(dst, xs []float64) {
		if evalErr != nil {
			return
		}
		yp, err := f(tensor.Dense{Shape: x.Shape, Data: xs})
		if err != nil {
			evalErr = fmt.Errorf("gradcheck: evaluating f at a perturbed x: %w", err)
			return
		}
		if yp.N() != len(dst) {
			evalErr = fmt.Errorf("%w: f returned %d elements at a perturbed x, %d at x", ErrShapeMismatch, yp.N(), len(dst))
			return
		}
		copy(dst, yp.Data)
	}

	jac := mat.NewDense(m, n, nil)
	fd.Jacobian(jac, vecFunc, x.Data, &fd.JacobianSettings{
		Formula:     formula,
		Step:        step,
		OriginValue: origin,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return jac, nil
}

// VJP contracts an upstream gradient with a Jacobian: dx = dyᵀ J.
// The result is shaped like like.
func VJP(jac *mat.Dense, dy tensor.Dense, like tensor.Dense) (tensor.Dense, error) {
	m, n := jac.Dims()
	if dy.N() != m {
		return tensor.Dense{}, fmt.Errorf("%w: upstream gradient has %d elements, jacobian has %d rows", ErrShapeMismatch, dy.N(), m)
	}
	if like.N() != n {
		return tensor.Dense{}, fmt.Errorf("%w: input has %d elements, jacobian has %d columns", ErrShapeMismatch, like.N(), n)
	}

	var dx mat.VecDense
	dx.MulVec(jac.T(), mat.NewVecDense(m, dy.Clone().Data))
	return tensor.New(like.Shape, mat.Col(nil, 0, &dx))
}
