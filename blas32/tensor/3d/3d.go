package tensor3d

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/blas/blas32"
)

// General は (Channels, Rows, Cols) の順に並んだ float32 画像テンソルです。
type General struct {
	Channels      int
	Rows          int
	Cols          int
	ChannelStride int
	RowStride     int
	Data          []float32
}

func NewZeros(chs, rows, cols int) General {
	rowStride := cols
	chStride := rows * rowStride
	n := chs * chStride
	return General{
		Channels:      chs,
		Rows:          rows,
		Cols:          cols,
		ChannelStride: chStride,
		RowStride:     rowStride,
		Data:          make([]float32, n),
	}
}

func NewZerosLike(gen General) General {
	return NewZeros(gen.Channels, gen.Rows, gen.Cols)
}

func NewFull(v float32, chs, rows, cols int) General {
	gen := NewZeros(chs, rows, cols)
	for i := range gen.Data {
		gen.Data[i] = v
	}
	return gen
}

// New wraps data, which must hold chs*rows*cols values in CHW order.
func New(chs, rows, cols int, data []float32) (General, error) {
	if chs < 0 || rows < 0 || cols < 0 {
		return General{}, fmt.Errorf("tensor3d: negative shape (%d, %d, %d)", chs, rows, cols)
	}
	if len(data) != chs*rows*cols {
		return General{}, fmt.Errorf("tensor3d: shape (%d, %d, %d) requires %d values, got %d", chs, rows, cols, chs*rows*cols, len(data))
	}
	gen := NewZeros(chs, rows, cols)
	gen.Data = data
	return gen, nil
}

func (g General) N() int {
	return g.Channels * g.Rows * g.Cols
}

func (g General) SameShape(other General) bool {
	return g.Channels == other.Channels && g.Rows == other.Rows && g.Cols == other.Cols
}

func (g General) Clone() General {
	return General{
		Channels:      g.Channels,
		Rows:          g.Rows,
		Cols:          g.Cols,
		ChannelStride: g.ChannelStride,
		RowStride:     g.RowStride,
		Data:          slices.Clone(g.Data),
	}
}

func (g General) At(ch, row, col int) int {
	return ch*g.ChannelStride + row*g.RowStride + col
}

func (g General) ToVector() blas32.Vector {
	return blas32.Vector{
		N:    g.N(),
		Inc:  1,
		Data: g.Data,
	}
}

func (g General) Scal(alpha float32) {
	blas32.Scal(alpha, g.ToVector())
}

// Axpy computes g += alpha * x. Shapes must match.
func (g General) Axpy(alpha float32, x General) error {
	if !g.SameShape(x) {
		return fmt.Errorf("tensor3d: axpy shape mismatch (%d, %d, %d) vs (%d, %d, %d)",
			g.Channels, g.Rows, g.Cols, x.Channels, x.Rows, x.Cols)
	}
	blas32.Axpy(alpha, x.ToVector(), g.ToVector())
	return nil
}

// Transpose120 は (C, H, W) を (H, W, C) に並べ替えます。
func (g *General) Transpose120() General {
	dst := NewZeros(g.Rows, g.Cols, g.Channels)
	dstChStride := dst.ChannelStride
	dstRowStride := dst.RowStride
	for row := 0; row < g.Rows; row++ {
		srcRowBase := row * g.RowStride
		dstBase := row * dstChStride
		for col := 0; col < g.Cols; col++ {
			dstOff := dstBase + col*dstRowStride
			srcOff := srcRowBase + col
			for ch := 0; ch < g.Channels; ch++ {
				dst.Data[dstOff+ch] = g.Data[srcOff+ch*g.ChannelStride]
			}
		}
	}
	return dst
}

// RepeatChannels returns a chs-channel copy of a single-channel image.
func (g *General) RepeatChannels(chs int) (General, error) {
	if g.Channels != 1 {
		return General{}, fmt.Errorf("tensor3d: RepeatChannels needs 1 channel, got %d", g.Channels)
	}
	dst := NewZeros(chs, g.Rows, g.Cols)
	for ch := 0; ch < chs; ch++ {
		base := ch * dst.ChannelStride
		copy(dst.Data[base:base+dst.ChannelStride], g.Data)
	}
	return dst, nil
}

// Paste copies src into g with src's top-left pixel at (top, left).
// Channel counts must match and src must fit inside g.
func (g *General) Paste(src General, top, left int) error {
	if src.Channels != g.Channels {
		return fmt.Errorf("tensor3d: paste channel mismatch %d vs %d", src.Channels, g.Channels)
	}
	if top < 0 || left < 0 || top+src.Rows > g.Rows || left+src.Cols > g.Cols {
		return fmt.Errorf("tensor3d: %dx%d tile at (%d, %d) does not fit in %dx%d", src.Rows, src.Cols, top, left, g.Rows, g.Cols)
	}
	for ch := 0; ch < src.Channels; ch++ {
		for row := 0; row < src.Rows; row++ {
			srcOff := src.At(ch, row, 0)
			dstOff := g.At(ch, top+row, left)
			copy(g.Data[dstOff:dstOff+src.Cols], src.Data[srcOff:srcOff+src.Cols])
		}
	}
	return nil
}

func (img *General) ZeroPadding2D(top, bot, left, right int) General {
	padded := NewZeros(img.Channels, img.Rows+top+bot, img.Cols+left+right)
	for ch := 0; ch < img.Channels; ch++ {
		for row := 0; row < img.Rows; row++ {
			for col := 0; col < img.Cols; col++ {
				oldIdx := img.At(ch, row, col)
				newIdx := padded.At(ch, row+top, col+left)
				padded.Data[newIdx] = img.Data[oldIdx]
			}
		}
	}
	return padded
}
