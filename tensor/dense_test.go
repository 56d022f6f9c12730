package tensor_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw965/coutils/tensor"
)

func TestNew(t *testing.T) {
	d, err := tensor.New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, d.Shape)
	assert.Equal(t, 6, d.N())

	_, err = tensor.New([]int{2, 3}, []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = tensor.New([]int{-1, 3}, nil)
	assert.Error(t, err)
}

func TestNewOnesLike(t *testing.T) {
	x := tensor.NewZeros(2, 2, 2)
	ones := tensor.NewOnesLike(x)
	assert.Equal(t, x.Shape, ones.Shape)
	for _, e := range ones.Data {
		assert.Equal(t, 1.0, e)
	}
}

func TestNewRandUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := tensor.NewRandUniform(-2.0, 3.0, rng, 4, 5)
	assert.Equal(t, 20, d.N())
	for _, e := range d.Data {
		assert.GreaterOrEqual(t, e, -2.0)
		assert.Less(t, e, 3.0)
	}
}

func TestClone(t *testing.T) {
	x := tensor.FromSlice([]float64{-1.0, -2.0, 3.0})
	c := x.Clone()
	c.Data[0] = 1000.0
	c.Shape[0] = 9
	assert.Equal(t, -1.0, x.Data[0])
	assert.Equal(t, []int{3}, x.Shape)
}

func TestReshape(t *testing.T) {
	x := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6})
	y, err := x.Reshape(3, 2)
	require.NoError(t, err)
	y.Data[5] = 60
	assert.Equal(t, 60.0, x.Data[5], "reshape must share data")

	_, err = x.Reshape(4, 2)
	assert.Error(t, err)
}

func TestAxpyAndDot(t *testing.T) {
	x := tensor.FromSlice([]float64{1, 2, 3})
	y := tensor.FromSlice([]float64{10, 20, 30})
	require.NoError(t, y.Axpy(-2.0, x))
	assert.Equal(t, []float64{8, 16, 24}, y.Data)

	dot, err := x.Dot(y)
	require.NoError(t, err)
	assert.Equal(t, 8.0+32.0+72.0, dot)

	_, err = x.Dot(tensor.NewZeros(4))
	assert.Error(t, err)
}

func TestSubAbsMax(t *testing.T) {
	a, err := tensor.New([]int{2, 2}, []float64{1, -5, 3, 2})
	require.NoError(t, err)
	b := tensor.NewOnes(2, 2)
	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, diff.Shape)
	assert.Equal(t, []float64{0, -6, 2, 1}, diff.Data)
	assert.Equal(t, 6.0, diff.Abs().Max())

	assert.True(t, math.IsInf(tensor.NewZeros(0).Max(), -1))
}

func TestScal(t *testing.T) {
	x := tensor.FromSlice([]float64{1, -2, 4})
	x.Scal(0.5)
	assert.Equal(t, []float64{0.5, -1, 2}, x.Data)
}

func TestEqual(t *testing.T) {
	a := tensor.FromSlice([]float64{1, 2})
	b, err := a.Reshape(1, 2)
	require.NoError(t, err)
	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(b))
	assert.True(t, a.EqualApprox(tensor.FromSlice([]float64{1 + 1e-12, 2}), 1e-9))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 6.0, tensor.FromSlice([]float64{1, 2, 3}).Sum())
	assert.Equal(t, 0.0, tensor.NewZeros(0).Sum())
}

func TestMul(t *testing.T) {
	a := tensor.FromSlice([]float64{1, -2, 3})
	b := tensor.FromSlice([]float64{4, 5, -6})
	got, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, -10, -18}, got.Data)
	assert.Equal(t, []float64{1, -2, 3}, a.Data)

	_, err = a.Mul(tensor.NewZeros(2))
	assert.Error(t, err)
}
