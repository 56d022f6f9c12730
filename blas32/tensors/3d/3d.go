package tensor3ds

import (
	"fmt"

	"github.com/sw965/coutils/blas32/tensor/3d"
)

type Generals []tensor3d.General

func Clone(gens Generals) Generals {
	clone := make(Generals, len(gens))
	for i, gen := range gens {
		clone[i] = gen.Clone()
	}
	return clone
}

// CheckSameShape は全ての要素が先頭と同じ形状であることを確認します。
func CheckSameShape(gens Generals) error {
	if len(gens) == 0 {
		return nil
	}
	first := gens[0]
	for i, gen := range gens[1:] {
		if !gen.SameShape(first) {
			return fmt.Errorf("tensor3ds: image %d has shape (%d, %d, %d), image 0 has (%d, %d, %d)",
				i+1, gen.Channels, gen.Rows, gen.Cols, first.Channels, first.Rows, first.Cols)
		}
	}
	return nil
}

// ToRGB converts single-channel images to three channels and leaves others as they are.
func ToRGB(gens Generals) (Generals, error) {
	rgb := make(Generals, len(gens))
	for i, gen := range gens {
		if gen.Channels != 1 {
			rgb[i] = gen
			continue
		}
		c, err := gen.RepeatChannels(3)
		if err != nil {
			return nil, err
		}
		rgb[i] = c
	}
	return rgb, nil
}
