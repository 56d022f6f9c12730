package gradcheck

import (
	"golang.org/x/exp/constraints"
)

// ScalarGradient returns the central difference gradient of the scalar loss f
// at xs. xs is perturbed in place and restored element by element.
func ScalarGradient[X constraints.Float](xs []X, f func([]X) X, h X) []X {
	grad := make([]X, len(xs))
	for i := range xs {
		tmp := xs[i]

		xs[i] = tmp + h
		plusY := f(xs)

		xs[i] = tmp - h
		minusY := f(xs)

		grad[i] = (plusY - minusY) / (2 * h)
		xs[i] = tmp
	}
	return grad
}
