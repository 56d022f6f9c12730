package visual

import (
	"fmt"
	"math/rand"

	"github.com/sw965/coutils/blas32/tensor/3d"
	"github.com/sw965/coutils/blas32/tensors/3d"
	"github.com/sw965/coutils/mathx/randx"
)

// DatasetPadding is the gap in pixels between samples in VisualizeDataset.
const DatasetPadding = 2

// VisualizeDataset draws samplesPerClass random examples of every class,
// one class per grid row in the order of classes. Label y of ys refers to
// classes[y]. Samples are drawn with replacement.
func VisualizeDataset(xs tensor3ds.Generals, ys []int, samplesPerClass int, classes []string, rng *rand.Rand) (tensor3d.General, error) {
	if len(xs) != len(ys) {
		return tensor3d.General{}, fmt.Errorf("visual: %d images but %d labels", len(xs), len(ys))
	}
	if samplesPerClass <= 0 {
		return tensor3d.General{}, fmt.Errorf("visual: samplesPerClass must be positive, got %d", samplesPerClass)
	}
	if len(classes) == 0 {
		return tensor3d.General{}, fmt.Errorf("visual: no classes given")
	}

	idxsByClass := make([][]int, len(classes))
	for i, y := range ys {
		if y < 0 || y >= len(classes) {
			return tensor3d.General{}, fmt.Errorf("visual: label %d at index %d is outside [0, %d)", y, i, len(classes))
		}
		idxsByClass[y] = append(idxsByClass[y], i)
	}

	samples := make(tensor3ds.Generals, 0, samplesPerClass*len(classes))
	for y, idxs := range idxsByClass {
		if len(idxs) == 0 {
			return tensor3d.General{}, fmt.Errorf("visual: class %d (%s) has no images", y, classes[y])
		}
		for i := 0; i < samplesPerClass; i++ {
			samples = append(samples, xs[randx.Choice(idxs, rng)])
		}
	}
	return MakeGrid(samples, samplesPerClass, DatasetPadding, 0.0)
}
