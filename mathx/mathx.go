package mathx

import (
	"github.com/chewxy/math32"
)

// ConvertScale は [xMin, xMax] の x を [yMin, yMax] へ線形に写します。
func ConvertScale(x, xMin, xMax, yMin, yMax float32) float32 {
	return yMin + (yMax-yMin)*(x-xMin)/(xMax-xMin)
}

func CentralDifference(plusY, minusY, h float64) float64 {
	return (plusY - minusY) / (2.0 * h)
}

func Clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, x))
}

// RoundToUint8 converts v in [0, 1] to a byte as floor(v*255 + 0.5), saturating at both ends.
func RoundToUint8(v float32) uint8 {
	return uint8(Clamp(math32.Floor(v*255.0+0.5), 0.0, 255.0))
}
