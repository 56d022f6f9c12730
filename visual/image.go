// Package visual turns image tensors into pixels for inspection.
package visual

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/sw965/coutils/blas32/tensor/3d"
	"github.com/sw965/coutils/mathx"
)

// TensorToImage converts a (3, H, W) tensor with values in [0, 1] into H*W*3
// bytes in HWC order. Each value becomes floor(v*255 + 0.5) clamped to [0, 255].
func TensorToImage(t tensor3d.General) ([]uint8, error) {
	if t.Channels != 3 {
		return nil, fmt.Errorf("visual: TensorToImage needs 3 channels, got %d", t.Channels)
	}
	hwc := t.Transpose120()
	pix := make([]uint8, len(hwc.Data))
	for i, v := range hwc.Data {
		pix[i] = mathx.RoundToUint8(v)
	}
	return pix, nil
}

// ToRGBA は TensorToImage と同じ画素を持つ不透明な *image.RGBA を返します。
func ToRGBA(t tensor3d.General) (*image.RGBA, error) {
	pix, err := TensorToImage(t)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, t.Cols, t.Rows))
	for p := 0; p < t.Rows*t.Cols; p++ {
		copy(img.Pix[p*4:p*4+3], pix[p*3:p*3+3])
		img.Pix[p*4+3] = 255
	}
	return img, nil
}

func SavePNG(path string, t tensor3d.General) error {
	img, err := ToRGBA(t)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("visual: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("visual: encoding %s: %w", path, err)
	}
	return f.Close()
}
