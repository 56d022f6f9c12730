package mlfuncs

import (
	"fmt"

	"github.com/sw965/coutils/tensor"
	"gonum.org/v1/gonum/mat"
)

func matrix(d tensor.Dense, name string) (*mat.Dense, error) {
	if len(d.Shape) != 2 || d.Shape[0] == 0 || d.Shape[1] == 0 {
		return nil, fmt.Errorf("mlfuncs: %s must be a non-empty matrix, got shape %v", name, d.Shape)
	}
	return mat.NewDense(d.Shape[0], d.Shape[1], d.Data), nil
}

func fromMatrix(m *mat.Dense) tensor.Dense {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return tensor.Dense{Shape: []int{r, c}, Data: data}
}

// Affine computes y = x w + b for x of shape [batch, in], w of shape
// [in, out] and b of shape [out].
func Affine(x, w, b tensor.Dense) (tensor.Dense, error) {
	xm, err := matrix(x, "x")
	if err != nil {
		return tensor.Dense{}, err
	}
	wm, err := matrix(w, "w")
	if err != nil {
		return tensor.Dense{}, err
	}
	if x.Shape[1] != w.Shape[0] {
		return tensor.Dense{}, fmt.Errorf("mlfuncs: affine: x %v and w %v do not chain", x.Shape, w.Shape)
	}
	if b.N() != w.Shape[1] {
		return tensor.Dense{}, fmt.Errorf("mlfuncs: affine: b has %d elements, want %d", b.N(), w.Shape[1])
	}

	var ym mat.Dense
	ym.Mul(xm, wm)
	y := fromMatrix(&ym)
	out := w.Shape[1]
	for i := range y.Data {
		y.Data[i] += b.Data[i%out]
	}
	return y, nil
}

// AffineGrad returns the gradients of Affine with respect to x, w and b.
func AffineGrad(x, w, dy tensor.Dense) (tensor.Dense, tensor.Dense, tensor.Dense, error) {
	xm, err := matrix(x, "x")
	if err != nil {
		return tensor.Dense{}, tensor.Dense{}, tensor.Dense{}, err
	}
	wm, err := matrix(w, "w")
	if err != nil {
		return tensor.Dense{}, tensor.Dense{}, tensor.Dense{}, err
	}
	batch, out := x.Shape[0], w.Shape[1]
	if x.Shape[1] != w.Shape[0] || dy.N() != batch*out {
		return tensor.Dense{}, tensor.Dense{}, tensor.Dense{}, fmt.Errorf(
			"mlfuncs: affine grad: x %v, w %v and dy %v do not match", x.Shape, w.Shape, dy.Shape)
	}
	dym := mat.NewDense(batch, out, dy.Data)

	var dxm, dwm mat.Dense
	dxm.Mul(dym, wm.T())
	dwm.Mul(xm.T(), dym)

	db := tensor.NewZeros(out)
	for i, e := range dy.Data {
		db.Data[i%out] += e
	}
	return fromMatrix(&dxm), fromMatrix(&dwm), db, nil
}
