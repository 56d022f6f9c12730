package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/petar/GoMNIST"
	"github.com/sw965/coutils/blas32/tensor/3d"
	"github.com/sw965/coutils/blas32/tensors/3d"
)

// MNISTClasses は MNIST のラベル y に対応するクラス名です。
var MNISTClasses = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Labelled holds images as (1, H, W) tensors with values in [0, 1].
type Labelled struct {
	Images tensor3ds.Generals
	Labels []int
}

// Head returns the first n examples, or all of them when n is larger.
func (l Labelled) Head(n int) Labelled {
	n = min(max(n, 0), len(l.Images))
	return Labelled{Images: l.Images[:n], Labels: l.Labels[:n]}
}

type MNIST struct {
	Train Labelled
	Test  Labelled
}

// DefaultMNISTDir returns ~/.coutils_dataset/mnist.
func DefaultMNISTDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("dataset: home directory: %w", err)
	}
	return filepath.Join(home, ".coutils_dataset", "mnist"), nil
}

// LoadMNIST reads the four gzipped IDX files
// (train-images-idx3-ubyte.gz, train-labels-idx1-ubyte.gz,
// t10k-images-idx3-ubyte.gz, t10k-labels-idx1-ubyte.gz) from dir.
func LoadMNIST(dir string) (MNIST, error) {
	train, test, err := GoMNIST.Load(dir)
	if err != nil {
		return MNIST{}, fmt.Errorf("dataset: loading MNIST from %s: %w", dir, err)
	}

	trainL, err := FromSet(train)
	if err != nil {
		return MNIST{}, err
	}
	testL, err := FromSet(test)
	if err != nil {
		return MNIST{}, err
	}
	return MNIST{Train: trainL, Test: testL}, nil
}

// FromSet converts raw 8-bit images to (1, NRow, NCol) tensors scaled to [0, 1].
func FromSet(set *GoMNIST.Set) (Labelled, error) {
	if len(set.Images) != len(set.Labels) {
		return Labelled{}, fmt.Errorf("dataset: %d images but %d labels", len(set.Images), len(set.Labels))
	}

	n := set.NRow * set.NCol
	imgs := make(tensor3ds.Generals, len(set.Images))
	labels := make([]int, len(set.Labels))
	for i, raw := range set.Images {
		if len(raw) != n {
			return Labelled{}, fmt.Errorf("dataset: image %d has %d pixels, want %dx%d", i, len(raw), set.NRow, set.NCol)
		}
		img := tensor3d.NewZeros(1, set.NRow, set.NCol)
		for j, p := range raw {
			img.Data[j] = float32(p) / 255.0
		}
		imgs[i] = img
		labels[i] = int(set.Labels[i])
	}
	return Labelled{Images: imgs, Labels: labels}, nil
}
