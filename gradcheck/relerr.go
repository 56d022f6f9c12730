package gradcheck

import (
	"fmt"
	"math"

	"github.com/sw965/coutils/tensor"
)

// RelError returns max_i |pred_i - truth_i| / max(|truth_i|, eps).
// eps <= 0 selects DefaultEps. A NaN anywhere in the inputs yields NaN.
func RelError(pred, truth tensor.Dense, eps float64) (float64, error) {
	if pred.N() != truth.N() {
		return 0.0, fmt.Errorf("%w: pred %v has %d elements, truth %v has %d",
			ErrShapeMismatch, pred.Shape, pred.N(), truth.Shape, truth.N())
	}
	if eps <= 0 {
		eps = DefaultEps
	}

	maxErr := 0.0
	for i, p := range pred.Data {
		t := truth.Data[i]
		e := math.Abs(p-t) / math.Max(math.Abs(t), eps)
		if math.IsNaN(e) {
			return math.NaN(), nil
		}
		if e > maxErr {
			maxErr = e
		}
	}
	return maxErr, nil
}
