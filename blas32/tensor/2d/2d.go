package tensor2d

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/floats"
)

func NewZeros(rows, cols int) blas32.General {
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float32, rows*cols),
	}
}

func New(rows, cols int, data []float32) (blas32.General, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return blas32.General{}, fmt.Errorf("tensor2d: shape (%d, %d) does not match %d values", rows, cols, len(data))
	}
	return blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: data}, nil
}

func N(gen blas32.General) int {
	return gen.Rows * gen.Cols
}

func Clone(gen blas32.General) blas32.General {
	return blas32.General{
		Rows:   gen.Rows,
		Cols:   gen.Cols,
		Stride: gen.Stride,
		Data:   slices.Clone(gen.Data),
	}
}

func At(gen blas32.General, row, col int) int {
	return row*gen.Stride + col
}

// ResizeNearest は最近傍補間で gen を rows x cols に拡大・縮小します。
func ResizeNearest(gen blas32.General, rows, cols int) blas32.General {
	dst := NewZeros(rows, cols)
	if gen.Rows == 0 || gen.Cols == 0 {
		return dst
	}
	for r := 0; r < rows; r++ {
		srcRow := min(r*gen.Rows/rows, gen.Rows-1)
		for c := 0; c < cols; c++ {
			srcCol := min(c*gen.Cols/cols, gen.Cols-1)
			dst.Data[At(dst, r, c)] = gen.Data[At(gen, srcRow, srcCol)]
		}
	}
	return dst
}

// MinMax returns the smallest and largest element of a non-empty gen.
func MinMax(gen blas32.General) (float32, float32) {
	vals := make([]float64, 0, N(gen))
	for r := 0; r < gen.Rows; r++ {
		for c := 0; c < gen.Cols; c++ {
			vals = append(vals, float64(gen.Data[At(gen, r, c)]))
		}
	}
	return float32(floats.Min(vals)), float32(floats.Max(vals))
}
