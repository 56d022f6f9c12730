package visual

import (
	"fmt"

	"github.com/sw965/coutils/blas32/tensor/3d"
	"github.com/sw965/coutils/blas32/tensors/3d"
)

// MakeGrid tiles imgs left to right, nrow images per row, with padding pixels
// of padValue between and around the tiles. Single-channel images are
// repeated to three channels. All images must share one shape.
func MakeGrid(imgs tensor3ds.Generals, nrow, padding int, padValue float32) (tensor3d.General, error) {
	if len(imgs) == 0 {
		return tensor3d.General{}, fmt.Errorf("visual: MakeGrid needs at least one image")
	}
	if nrow <= 0 {
		return tensor3d.General{}, fmt.Errorf("visual: nrow must be positive, got %d", nrow)
	}
	if padding < 0 {
		return tensor3d.General{}, fmt.Errorf("visual: padding must not be negative, got %d", padding)
	}
	if err := tensor3ds.CheckSameShape(imgs); err != nil {
		return tensor3d.General{}, err
	}
	imgs, err := tensor3ds.ToRGB(imgs)
	if err != nil {
		return tensor3d.General{}, err
	}

	first := imgs[0]
	xmaps := min(nrow, len(imgs))
	ymaps := (len(imgs) + xmaps - 1) / xmaps
	height := first.Rows + padding
	width := first.Cols + padding

	grid := tensor3d.NewFull(padValue, first.Channels, height*ymaps+padding, width*xmaps+padding)
	for k, img := range imgs {
		y, x := k/xmaps, k%xmaps
		if err := grid.Paste(img, y*height+padding, x*width+padding); err != nil {
			return tensor3d.General{}, err
		}
	}
	return grid, nil
}
