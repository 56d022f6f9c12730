package mlfuncs

import (
	"fmt"

	"github.com/sw965/coutils/tensor"
)

func SumSquaredError(y, t tensor.Dense) (float64, error) {
	diff, err := y.Sub(t)
	if err != nil {
		return 0.0, fmt.Errorf("mlfuncs: sum squared error: %w", err)
	}
	sq, err := diff.Dot(diff)
	return 0.5 * sq, err
}

func SumSquaredErrorDerivative(y, t tensor.Dense) (tensor.Dense, error) {
	grad, err := y.Sub(t)
	if err != nil {
		return tensor.Dense{}, fmt.Errorf("mlfuncs: sum squared error derivative: %w", err)
	}
	return grad, nil
}

func MeanSquaredError(y, t tensor.Dense) (float64, error) {
	if y.N() == 0 {
		return 0.0, fmt.Errorf("mlfuncs: mean squared error of empty tensors")
	}
	sq, err := SumSquaredError(y, t)
	return sq / float64(y.N()), err
}

func MeanSquaredErrorDerivative(y, t tensor.Dense) (tensor.Dense, error) {
	grad, err := SumSquaredErrorDerivative(y, t)
	if err != nil {
		return tensor.Dense{}, err
	}
	if grad.N() > 0 {
		grad.Scal(1.0 / float64(grad.N()))
	}
	return grad, nil
}

func L2Regularization(c float64) func(tensor.Dense) float64 {
	return func(w tensor.Dense) float64 {
		sq, _ := w.Dot(w)
		return 0.5 * c * sq
	}
}

func L2RegularizationDerivative(c float64) func(tensor.Dense) tensor.Dense {
	return func(w tensor.Dense) tensor.Dense {
		grad := w.Clone()
		grad.Scal(c)
		return grad
	}
}
