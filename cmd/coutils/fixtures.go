package main

import (
	"math/rand"

	"github.com/sw965/coutils/gradcheck"
	"github.com/sw965/coutils/mlfuncs"
	"github.com/sw965/coutils/tensor"
)

// fixture is a function with a hand-written backward pass.
type fixture struct {
	name     string
	shape    []int
	forward  gradcheck.Func
	backward func(x, dy tensor.Dense) (tensor.Dense, error)
}

func pure(f func(tensor.Dense) tensor.Dense) gradcheck.Func {
	return func(x tensor.Dense) (tensor.Dense, error) {
		return f(x), nil
	}
}

func fromOutput(f func(tensor.Dense) tensor.Dense, grad func(y, dy tensor.Dense) (tensor.Dense, error)) func(x, dy tensor.Dense) (tensor.Dense, error) {
	return func(x, dy tensor.Dense) (tensor.Dense, error) {
		return grad(f(x), dy)
	}
}

func leakyReLU(alpha float64) fixture {
	return fixture{
		name:    "leaky_relu",
		shape:   []int{3, 4},
		forward: pure(func(x tensor.Dense) tensor.Dense { return mlfuncs.LeakyReLU(x, alpha) }),
		backward: func(x, dy tensor.Dense) (tensor.Dense, error) {
			return mlfuncs.LeakyReLUDerivative(x, alpha).Mul(dy)
		},
	}
}

func softmax() fixture {
	return fixture{
		name:    "softmax",
		shape:   []int{2, 5},
		forward: mlfuncs.Softmax,
		backward: func(x, dy tensor.Dense) (tensor.Dense, error) {
			y, err := mlfuncs.Softmax(x)
			if err != nil {
				return tensor.Dense{}, err
			}
			return mlfuncs.SoftmaxGrad(y, dy)
		},
	}
}

func affine(rng *rand.Rand) fixture {
	const batch, in, out = 2, 4, 3
	w := tensor.NewRandUniform(-1.0, 1.0, rng, in, out)
	b := tensor.NewRandUniform(-1.0, 1.0, rng, out)
	return fixture{
		name:  "affine",
		shape: []int{batch, in},
		forward: func(x tensor.Dense) (tensor.Dense, error) {
			return mlfuncs.Affine(x, w, b)
		},
		backward: func(x, dy tensor.Dense) (tensor.Dense, error) {
			dx, _, _, err := mlfuncs.AffineGrad(x, w, dy)
			return dx, err
		},
	}
}

func conv2D(rng *rand.Rand) fixture {
	const stride = 1
	w := tensor.NewRandUniform(-1.0, 1.0, rng, 2, 1, 3, 3)
	return fixture{
		name:  "conv2d",
		shape: []int{1, 5, 5},
		forward: func(x tensor.Dense) (tensor.Dense, error) {
			return mlfuncs.Conv2D(x, w, stride)
		},
		backward: func(x, dy tensor.Dense) (tensor.Dense, error) {
			dx, _, err := mlfuncs.Conv2DGrad(x, w, stride, dy)
			return dx, err
		},
	}
}

func fixtures(rng *rand.Rand) []fixture {
	return []fixture{
		{
			name:     "sigmoid",
			shape:    []int{2, 3},
			forward:  pure(mlfuncs.Sigmoid),
			backward: fromOutput(mlfuncs.Sigmoid, mlfuncs.SigmoidGrad),
		},
		{
			name:     "tanh",
			shape:    []int{2, 3},
			forward:  pure(mlfuncs.Tanh),
			backward: fromOutput(mlfuncs.Tanh, mlfuncs.TanhGrad),
		},
		{
			name:    "relu",
			shape:   []int{6},
			forward: pure(mlfuncs.ReLU),
			backward: func(x, dy tensor.Dense) (tensor.Dense, error) {
				return mlfuncs.ReLUDerivative(x).Mul(dy)
			},
		},
		leakyReLU(0.1),
		softmax(),
		affine(rng),
		conv2D(rng),
	}
}
