package mlfuncs

import (
	"fmt"

	"github.com/sw965/coutils/tensor"
	"gonum.org/v1/gonum/mat"
)

func ConvOutputSize(in, filter, stride int) int {
	return (in-filter)/stride + 1
}

// ConvShape は畳み込みの入力とフィルタの寸法です。
type ConvShape struct {
	Channels, Rows, Cols int
	Filters              int
	FilterRows           int
	FilterCols           int
	Stride               int
}

func (s ConvShape) OutRows() int {
	return ConvOutputSize(s.Rows, s.FilterRows, s.Stride)
}

func (s ConvShape) OutCols() int {
	return ConvOutputSize(s.Cols, s.FilterCols, s.Stride)
}

func (s ConvShape) patch() int {
	return s.Channels * s.FilterRows * s.FilterCols
}

// NewConvShape validates x of shape [channels, rows, cols] against w of
// shape [filters, channels, filterRows, filterCols].
func NewConvShape(x, w tensor.Dense, stride int) (ConvShape, error) {
	if len(x.Shape) != 3 {
		return ConvShape{}, fmt.Errorf("mlfuncs: conv input must have shape [C, H, W], got %v", x.Shape)
	}
	if len(w.Shape) != 4 {
		return ConvShape{}, fmt.Errorf("mlfuncs: conv filter must have shape [F, C, KH, KW], got %v", w.Shape)
	}
	if stride <= 0 {
		return ConvShape{}, fmt.Errorf("mlfuncs: conv stride must be positive, got %d", stride)
	}
	s := ConvShape{
		Channels:   x.Shape[0],
		Rows:       x.Shape[1],
		Cols:       x.Shape[2],
		Filters:    w.Shape[0],
		FilterRows: w.Shape[2],
		FilterCols: w.Shape[3],
		Stride:     stride,
	}
	if w.Shape[1] != s.Channels {
		return ConvShape{}, fmt.Errorf("mlfuncs: conv filter has %d channels, input has %d", w.Shape[1], s.Channels)
	}
	if s.Filters == 0 || s.patch() == 0 {
		return ConvShape{}, fmt.Errorf("mlfuncs: empty conv filter %v", w.Shape)
	}
	if s.FilterRows > s.Rows || s.FilterCols > s.Cols {
		return ConvShape{}, fmt.Errorf("mlfuncs: conv filter %dx%d is larger than input %dx%d",
			s.FilterRows, s.FilterCols, s.Rows, s.Cols)
	}
	return s, nil
}

func (s ConvShape) at(ch, row, col int) int {
	return ch*s.Rows*s.Cols + row*s.Cols + col
}

// Im2Col は各出力位置の受容野を 1 行に並べた行列を返します。
// 行数は OutRows*OutCols、列数は Channels*FilterRows*FilterCols です。
func Im2Col(x tensor.Dense, s ConvShape) *mat.Dense {
	outRows, outCols := s.OutRows(), s.OutCols()
	data := make([]float64, 0, outRows*outCols*s.patch())
	for or := 0; or < outRows; or++ {
		baseRow := or * s.Stride
		for oc := 0; oc < outCols; oc++ {
			baseCol := oc * s.Stride
			for ch := 0; ch < s.Channels; ch++ {
				for fr := 0; fr < s.FilterRows; fr++ {
					for fc := 0; fc < s.FilterCols; fc++ {
						data = append(data, x.Data[s.at(ch, baseRow+fr, baseCol+fc)])
					}
				}
			}
		}
	}
	return mat.NewDense(outRows*outCols, s.patch(), data)
}

// Col2Im is the adjoint of Im2Col: overlapping patches are summed.
func Col2Im(col mat.Matrix, s ConvShape) tensor.Dense {
	x := tensor.NewZeros(s.Channels, s.Rows, s.Cols)
	outCols := s.OutCols()
	r, _ := col.Dims()
	for p := 0; p < r; p++ {
		baseRow := (p / outCols) * s.Stride
		baseCol := (p % outCols) * s.Stride
		k := 0
		for ch := 0; ch < s.Channels; ch++ {
			for fr := 0; fr < s.FilterRows; fr++ {
				for fc := 0; fc < s.FilterCols; fc++ {
					x.Data[s.at(ch, baseRow+fr, baseCol+fc)] += col.At(p, k)
					k++
				}
			}
		}
	}
	return x
}

// Conv2D returns the valid cross-correlation of x with w, of shape
// [filters, outRows, outCols].
func Conv2D(x, w tensor.Dense, stride int) (tensor.Dense, error) {
	s, err := NewConvShape(x, w, stride)
	if err != nil {
		return tensor.Dense{}, err
	}
	col := Im2Col(x, s)
	wm := mat.NewDense(s.Filters, s.patch(), w.Data)

	var out mat.Dense
	out.Mul(col, wm.T())

	y := tensor.NewZeros(s.Filters, s.OutRows(), s.OutCols())
	positions := s.OutRows() * s.OutCols()
	for f := 0; f < s.Filters; f++ {
		mat.Col(y.Data[f*positions:(f+1)*positions], f, &out)
	}
	return y, nil
}

// Conv2DGrad returns the gradients of Conv2D with respect to x and w.
func Conv2DGrad(x, w tensor.Dense, stride int, dy tensor.Dense) (tensor.Dense, tensor.Dense, error) {
	s, err := NewConvShape(x, w, stride)
	if err != nil {
		return tensor.Dense{}, tensor.Dense{}, err
	}
	positions := s.OutRows() * s.OutCols()
	if dy.N() != s.Filters*positions {
		return tensor.Dense{}, tensor.Dense{}, fmt.Errorf(
			"mlfuncs: conv grad: dy has %d elements, want %d", dy.N(), s.Filters*positions)
	}

	// dy は [F, P] の並びなので転置して [P, F] として扱う
	dym := mat.NewDense(s.Filters, positions, dy.Data).T()
	col := Im2Col(x, s)
	wm := mat.NewDense(s.Filters, s.patch(), w.Data)

	var dwm, dcol mat.Dense
	dwm.Mul(dym.T(), col)
	dcol.Mul(dym, wm)

	dw := tensor.NewZerosLike(w)
	for f := 0; f < s.Filters; f++ {
		copy(dw.Data[f*s.patch():(f+1)*s.patch()], dwm.RawRowView(f))
	}
	return Col2Im(&dcol, s), dw, nil
}
