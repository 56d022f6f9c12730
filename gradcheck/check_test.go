package gradcheck_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw965/coutils/gradcheck"
	"github.com/sw965/coutils/mathx/randx"
	"github.com/sw965/coutils/tensor"
	"gonum.org/v1/gonum/floats"
)

func TestRelError(t *testing.T) {
	a := tensor.FromSlice([]float64{1, -2, 3.5, 0})
	got, err := gradcheck.RelError(a, a.Clone(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	pred := tensor.FromSlice([]float64{1.1, 2})
	truth := tensor.FromSlice([]float64{1, 2})
	got, err = gradcheck.RelError(pred, truth, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, got, 1e-12)
}

func TestRelErrorZeroTruthUsesEps(t *testing.T) {
	pred := tensor.FromSlice([]float64{1e-9, 0})
	truth := tensor.FromSlice([]float64{0, 0})
	got, err := gradcheck.RelError(pred, truth, 1e-8)
	require.NoError(t, err)
	assert.False(t, math.IsInf(got, 0))
	assert.InDelta(t, 0.1, got, 1e-12)
}

func TestRelErrorNaN(t *testing.T) {
	pred := tensor.FromSlice([]float64{1, math.NaN(), 3})
	truth := tensor.FromSlice([]float64{1, 2, 3})
	got, err := gradcheck.RelError(pred, truth, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestRelErrorShapeMismatch(t *testing.T) {
	_, err := gradcheck.RelError(tensor.NewZeros(2), tensor.NewZeros(3), 0)
	assert.ErrorIs(t, err, gradcheck.ErrShapeMismatch)
}

func TestCheck(t *testing.T) {
	x := tensor.FromSlice([]float64{0.5, -1.5, 2.5})
	analytic := x.Map(math.Cos)

	report, err := gradcheck.Check(sine, x, analytic, nil)
	require.NoError(t, err)
	assert.True(t, report.Passed(1e-7), "rel error %v", report.RelError)
	assert.Less(t, report.MaxAbsDiff, 1e-8)

	wrong := x.Map(math.Sin)
	report, err = gradcheck.Check(sine, x, wrong, nil)
	require.NoError(t, err)
	assert.False(t, report.Passed(1e-3))

	_, err = gradcheck.Check(sine, x, tensor.NewZeros(2), nil)
	assert.ErrorIs(t, err, gradcheck.ErrShapeMismatch)
}

func TestScalarGradient(t *testing.T) {
	loss := func(target float64) func([]float64) float64 {
		return func(x []float64) float64 {
			y := floats.Sum(x)
			return 0.5 * (y - target) * (y - target)
		}
	}
	x := []float64{10, 20, 30, 40}
	grad := gradcheck.ScalarGradient(x, loss(50), 1e-4)
	for _, g := range grad {
		assert.InDelta(t, 50.0, g, 1e-6)
	}
	assert.Equal(t, []float64{10, 20, 30, 40}, x)
}

func TestScalarGradientFloat32(t *testing.T) {
	x := []float32{1, 2}
	sumSquares := func(xs []float32) float32 {
		return xs[0]*xs[0] + xs[1]*xs[1]
	}
	grad := gradcheck.ScalarGradient(x, sumSquares, 1e-2)
	assert.InDelta(t, 2.0, grad[0], 1e-3)
	assert.InDelta(t, 4.0, grad[1], 1e-3)
}

func TestNumericJacobian(t *testing.T) {
	// f(x) = [x0*sin(x1), x1*cos(x0), x0^3]
	f := func(x tensor.Dense) (tensor.Dense, error) {
		x0, x1 := x.Data[0], x.Data[1]
		return tensor.FromSlice([]float64{x0 * math.Sin(x1), x1 * math.Cos(x0), x0 * x0 * x0}), nil
	}
	x := tensor.FromSlice([]float64{0.7, 1.3})
	jac, err := gradcheck.NumericJacobian(f, x, nil)
	require.NoError(t, err)

	r, c := jac.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	x0, x1 := 0.7, 1.3
	want := [][]float64{
		{math.Sin(x1), x0 * math.Cos(x1)},
		{-x1 * math.Sin(x0), math.Cos(x0)},
		{3 * x0 * x0, 0},
	}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], jac.At(i, j), 1e-8, "J[%d][%d]", i, j)
		}
	}
	assert.Equal(t, []float64{0.7, 1.3}, x.Data)

	dy := tensor.FromSlice([]float64{1, -2, 0.5})
	vjp, err := gradcheck.VJP(jac, dy, x)
	require.NoError(t, err)
	dx, err := gradcheck.NumericGradient(f, x, &gradcheck.Settings{Upstream: &dy})
	require.NoError(t, err)
	if diff := cmp.Diff(dx.Data, vjp.Data, cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		t.Errorf("VJP and NumericGradient disagree (-grad +vjp):\n%s", diff)
	}
}

func TestNumericJacobianErrors(t *testing.T) {
	_, err := gradcheck.NumericJacobian(square, tensor.NewZeros(0), nil)
	assert.ErrorIs(t, err, gradcheck.ErrEmptyInput)

	boom := errors.New("boom")
	calls := 0
	f := func(x tensor.Dense) (tensor.Dense, error) {
		calls++
		if calls > 2 {
			return tensor.Dense{}, boom
		}
		return x.Clone(), nil
	}
	_, err = gradcheck.NumericJacobian(f, tensor.NewZeros(3), nil)
	assert.ErrorIs(t, err, boom)

	jac, err := gradcheck.NumericJacobian(square, tensor.FromSlice([]float64{1, 2}), nil)
	require.NoError(t, err)
	_, err = gradcheck.VJP(jac, tensor.NewOnes(3), tensor.NewZeros(2))
	assert.ErrorIs(t, err, gradcheck.ErrShapeMismatch)
	_, err = gradcheck.VJP(jac, tensor.NewOnes(2), tensor.NewZeros(5))
	assert.ErrorIs(t, err, gradcheck.ErrShapeMismatch)
}

func TestDirectionalCheck(t *testing.T) {
	rng := randx.New(11)
	x := tensor.NewRandUniform(-1.0, 1.0, rng, 4, 3)
	loss := func(x tensor.Dense) (float64, error) {
		sum := 0.0
		for _, e := range x.Data {
			sum += math.Exp(e)
		}
		return sum, nil
	}
	analytic := x.Map(math.Exp)

	dir, err := gradcheck.DirectionalCheck(loss, x, analytic, 0, rng)
	require.NoError(t, err)
	assert.Equal(t, x.Shape, dir.V.Shape)
	assert.Less(t, dir.RelError, 1e-6)

	wrong := tensor.NewZerosLike(x)
	dir, err = gradcheck.DirectionalCheck(loss, x, wrong, 0, rng)
	require.NoError(t, err)
	assert.Greater(t, dir.RelError, 0.5)

	_, err = gradcheck.DirectionalCheck(loss, x, tensor.NewZeros(2), 0, rng)
	assert.ErrorIs(t, err, gradcheck.ErrShapeMismatch)
	_, err = gradcheck.DirectionalCheck(loss, tensor.NewZeros(0), tensor.NewZeros(0), 0, rng)
	assert.ErrorIs(t, err, gradcheck.ErrEmptyInput)
	_, err = gradcheck.DirectionalCheck(loss, x, analytic, -1, rng)
	assert.ErrorIs(t, err, gradcheck.ErrBadStep)
}
