package gradcheck

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sw965/coutils/mathx"
	"github.com/sw965/coutils/mathx/randx"
	"github.com/sw965/coutils/tensor"
)

// Direction is a gradient check along one random ±1 direction V.
type Direction struct {
	V        tensor.Dense
	Analytic float64
	Numeric  float64
	RelError float64
}

// DirectionalCheck compares analytic·v with the central difference
// (L(x+hv) - L(x-hv)) / 2h for a Rademacher direction v. It costs two
// evaluations of loss regardless of the size of x. x is not modified.
// h == 0 selects DefaultStep.
func DirectionalCheck(loss ScalarFunc, x, analytic tensor.Dense, h float64, rng *rand.Rand) (Direction, error) {
	if x.N() == 0 {
		return Direction{}, fmt.Errorf("%w: x has no elements", ErrEmptyInput)
	}
	if analytic.N() != x.N() {
		return Direction{}, fmt.Errorf("%w: analytic gradient has %d elements, x has %d", ErrShapeMismatch, analytic.N(), x.N())
	}
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return Direction{}, fmt.Errorf("%w: got %v", ErrBadStep, h)
	}
	if h == 0 {
		h = DefaultStep
	}

	v := tensor.NewZerosLike(x)
	for i := range v.Data {
		v.Data[i] = randx.Rademacher(rng)
	}

	plusX := x.Clone()
	if err := plusX.Axpy(h, v); err != nil {
		return Direction{}, err
	}
	minusX := x.Clone()
	if err := minusX.Axpy(-h, v); err != nil {
		return Direction{}, err
	}

	plusY, err := loss(plusX)
	if err != nil {
		return Direction{}, fmt.Errorf("gradcheck: evaluating loss at x+hv: %w", err)
	}
	minusY, err := loss(minusX)
	if err != nil {
		return Direction{}, fmt.Errorf("gradcheck: evaluating loss at x-hv: %w", err)
	}

	numeric := mathx.CentralDifference(plusY, minusY, h)
	projected, err := analytic.Dot(v)
	if err != nil {
		return Direction{}, err
	}
	relErr, err := RelError(tensor.FromSlice([]float64{projected}), tensor.FromSlice([]float64{numeric}), DefaultEps)
	if err != nil {
		return Direction{}, err
	}

	return Direction{
		V:        v,
		Analytic: projected,
		Numeric:  numeric,
		RelError: relErr,
	}, nil
}
