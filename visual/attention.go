package visual

import (
	"fmt"

	"github.com/sw965/coutils/blas32/tensor/2d"
	"github.com/sw965/coutils/blas32/tensor/3d"
	"github.com/sw965/coutils/mathx"
	"gonum.org/v1/gonum/blas/blas32"
)

// AttentionHeaderRows is the height of the blank band above an attention overlay.
const AttentionHeaderRows = 25

// AttentionOverlay blends attention weights over a (3, H, W) image in [0, 1].
// attn is resized to H x W by nearest neighbour and rescaled to [0, 1], then
// mixed half and half with every channel of img. A black band of
// AttentionHeaderRows rows is added on top, so the result is (3, H+25, W).
func AttentionOverlay(img tensor3d.General, attn blas32.General) (tensor3d.General, error) {
	if img.Channels != 3 {
		return tensor3d.General{}, fmt.Errorf("visual: AttentionOverlay needs 3 channels, got %d", img.Channels)
	}
	if attn.Rows <= 0 || attn.Cols <= 0 {
		return tensor3d.General{}, fmt.Errorf("visual: empty attention map %dx%d", attn.Rows, attn.Cols)
	}

	resized := tensor2d.ResizeNearest(attn, img.Rows, img.Cols)
	lo, hi := tensor2d.MinMax(resized)
	if hi > lo {
		for i, w := range resized.Data {
			resized.Data[i] = mathx.ConvertScale(w, lo, hi, 0.0, 1.0)
		}
	}

	mask, err := tensor3d.New(1, img.Rows, img.Cols, resized.Data)
	if err != nil {
		return tensor3d.General{}, err
	}
	mask, err = mask.RepeatChannels(3)
	if err != nil {
		return tensor3d.General{}, err
	}

	blended := img.Clone()
	blended.Scal(0.5)
	if err := blended.Axpy(0.5, mask); err != nil {
		return tensor3d.General{}, err
	}

	out := tensor3d.NewZeros(3, img.Rows+AttentionHeaderRows, img.Cols)
	if err := out.Paste(blended, AttentionHeaderRows, 0); err != nil {
		return tensor3d.General{}, err
	}
	return out, nil
}
