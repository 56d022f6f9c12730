// Package mlfuncs は順伝播と、それに対応する手書きの逆伝播を提供します。
// 逆伝播は gradcheck で数値勾配と突き合わせて検証されます。
package mlfuncs

import (
	"fmt"
	"math"

	"github.com/sw965/coutils/tensor"
)

func Sigmoid(x tensor.Dense) tensor.Dense {
	return x.Map(func(e float64) float64 {
		return 1.0 / (1.0 + math.Exp(-e))
	})
}

// SigmoidGrad は Sigmoid の出力 y と上流勾配 dy から dx を求めます。
func SigmoidGrad(y, dy tensor.Dense) (tensor.Dense, error) {
	local := y.Map(func(e float64) float64 { return e * (1.0 - e) })
	return local.Mul(dy)
}

func Tanh(x tensor.Dense) tensor.Dense {
	return x.Map(math.Tanh)
}

func TanhGrad(y, dy tensor.Dense) (tensor.Dense, error) {
	local := y.Map(func(e float64) float64 { return 1.0 - e*e })
	return local.Mul(dy)
}

func ReLU(x tensor.Dense) tensor.Dense {
	return LeakyReLU(x, 0.0)
}

func ReLUDerivative(x tensor.Dense) tensor.Dense {
	return LeakyReLUDerivative(x, 0.0)
}

func LeakyReLU(x tensor.Dense, alpha float64) tensor.Dense {
	return x.Map(func(e float64) float64 {
		if e > 0 {
			return e
		}
		return alpha * e
	})
}

func LeakyReLUDerivative(x tensor.Dense, alpha float64) tensor.Dense {
	return x.Map(func(e float64) float64 {
		if e > 0 {
			return 1.0
		}
		return alpha
	})
}

// ParamReLUDerivative は LeakyReLU の x に関する局所微分と、
// alpha に関する要素ごとの局所微分を返します。
func ParamReLUDerivative(x tensor.Dense, alpha float64) (tensor.Dense, tensor.Dense) {
	gradX := LeakyReLUDerivative(x, alpha)
	gradAlpha := x.Map(func(e float64) float64 {
		if e > 0 {
			return 0.0
		}
		return e
	})
	return gradX, gradAlpha
}

func lastAxis(x tensor.Dense) (int, error) {
	if len(x.Shape) == 0 {
		return 0, fmt.Errorf("mlfuncs: softmax needs at least one axis")
	}
	n := x.Shape[len(x.Shape)-1]
	if n == 0 {
		return 0, fmt.Errorf("mlfuncs: softmax over an empty axis")
	}
	return n, nil
}

// Softmax は最後の軸に沿ってソフトマックスを計算します。
func Softmax(x tensor.Dense) (tensor.Dense, error) {
	n, err := lastAxis(x)
	if err != nil {
		return tensor.Dense{}, err
	}
	y := tensor.NewZerosLike(x)
	for start := 0; start < x.N(); start += n {
		row := x.Data[start : start+n]
		out := y.Data[start : start+n]
		// オーバーフロー対策
		m := math.Inf(-1)
		for _, e := range row {
			m = math.Max(m, e)
		}
		sum := 0.0
		for i, e := range row {
			out[i] = math.Exp(e - m)
			sum += out[i]
		}
		for i := range out {
			out[i] /= sum
		}
	}
	return y, nil
}

// SoftmaxGrad computes dx = y * (dy - sum(dy * y)) row by row.
func SoftmaxGrad(y, dy tensor.Dense) (tensor.Dense, error) {
	n, err := lastAxis(y)
	if err != nil {
		return tensor.Dense{}, err
	}
	if y.N() != dy.N() {
		return tensor.Dense{}, fmt.Errorf("mlfuncs: softmax grad: y has %d elements, dy has %d", y.N(), dy.N())
	}
	dx := tensor.NewZerosLike(y)
	for start := 0; start < y.N(); start += n {
		yr := y.Data[start : start+n]
		dyr := dy.Data[start : start+n]
		dot := 0.0
		for i := range yr {
			dot += yr[i] * dyr[i]
		}
		for i := range yr {
			dx.Data[start+i] = yr[i] * (dyr[i] - dot)
		}
	}
	return dx, nil
}
