package tensor

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// Dense は任意の形状を持つ行優先の float64 配列です。
// Data は常に len(Data) == Shape の要素数の積 を満たします。
type Dense struct {
	Shape []int
	Data  []float64
}

func size(shape []int) (int, error) {
	n := 1
	for axis, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("tensor: negative dimension %d at axis %d", dim, axis)
		}
		n *= dim
	}
	return n, nil
}

func mustSize(shape []int) int {
	n, err := size(shape)
	if err != nil {
		panic(err)
	}
	return n
}

// New は data をそのまま保持する Dense を返します。data はコピーされません。
func New(shape []int, data []float64) (Dense, error) {
	n, err := size(shape)
	if err != nil {
		return Dense{}, err
	}
	if len(data) != n {
		return Dense{}, fmt.Errorf("tensor: shape %v requires %d elements, got %d", shape, n, len(data))
	}
	return Dense{Shape: slices.Clone(shape), Data: data}, nil
}

// FromSlice returns a 1-d Dense backed by xs.
func FromSlice(xs []float64) Dense {
	return Dense{Shape: []int{len(xs)}, Data: xs}
}

func NewZeros(shape ...int) Dense {
	return Dense{
		Shape: slices.Clone(shape),
		Data:  make([]float64, mustSize(shape)),
	}
}

func NewZerosLike(d Dense) Dense {
	return NewZeros(d.Shape...)
}

func NewFull(v float64, shape ...int) Dense {
	d := NewZeros(shape...)
	for i := range d.Data {
		d.Data[i] = v
	}
	return d
}

func NewOnes(shape ...int) Dense {
	return NewFull(1.0, shape...)
}

func NewOnesLike(d Dense) Dense {
	return NewOnes(d.Shape...)
}

func NewRandUniform(min, max float64, rng *rand.Rand, shape ...int) Dense {
	d := NewZeros(shape...)
	for i := range d.Data {
		d.Data[i] = rng.Float64()*(max-min) + min
	}
	return d
}

func (d Dense) N() int {
	return len(d.Data)
}

func (d Dense) Clone() Dense {
	return Dense{
		Shape: slices.Clone(d.Shape),
		Data:  slices.Clone(d.Data),
	}
}

func (d Dense) SameShape(other Dense) bool {
	return slices.Equal(d.Shape, other.Shape)
}

// Reshape returns a Dense sharing d's data under a new shape.
func (d Dense) Reshape(shape ...int) (Dense, error) {
	n, err := size(shape)
	if err != nil {
		return Dense{}, err
	}
	if n != d.N() {
		return Dense{}, fmt.Errorf("tensor: cannot reshape %v (%d elements) into %v", d.Shape, d.N(), shape)
	}
	return Dense{Shape: slices.Clone(shape), Data: d.Data}, nil
}

// ToVector は Data を共有する平坦なベクトルを返します。
func (d Dense) ToVector() blas64.Vector {
	return blas64.Vector{
		N:    d.N(),
		Inc:  1,
		Data: d.Data,
	}
}

func (d Dense) checkN(other Dense, op string) error {
	if d.N() != other.N() {
		return fmt.Errorf("tensor: %s: element counts differ (%v has %d, %v has %d)", op, d.Shape, d.N(), other.Shape, other.N())
	}
	return nil
}

// Axpy computes d += alpha * x in place.
func (d Dense) Axpy(alpha float64, x Dense) error {
	if err := d.checkN(x, "axpy"); err != nil {
		return err
	}
	blas64.Axpy(alpha, x.ToVector(), d.ToVector())
	return nil
}

func (d Dense) Scal(alpha float64) {
	blas64.Scal(alpha, d.ToVector())
}

// Dot returns the inner product of the flattened d and other.
func (d Dense) Dot(other Dense) (float64, error) {
	if err := d.checkN(other, "dot"); err != nil {
		return 0.0, err
	}
	return blas64.Dot(d.ToVector(), other.ToVector()), nil
}

// Sub returns d - other with d's shape.
func (d Dense) Sub(other Dense) (Dense, error) {
	if err := d.checkN(other, "sub"); err != nil {
		return Dense{}, err
	}
	y := NewZerosLike(d)
	floats.SubTo(y.Data, d.Data, other.Data)
	return y, nil
}

// Mul returns the elementwise product of d and other with d's shape.
func (d Dense) Mul(other Dense) (Dense, error) {
	if err := d.checkN(other, "mul"); err != nil {
		return Dense{}, err
	}
	y := d.Clone()
	floats.Mul(y.Data, other.Data)
	return y, nil
}

func (d Dense) Sum() float64 {
	return floats.Sum(d.Data)
}

func (d Dense) Map(f func(float64) float64) Dense {
	y := NewZerosLike(d)
	for i, e := range d.Data {
		y.Data[i] = f(e)
	}
	return y
}

func (d Dense) Abs() Dense {
	return d.Map(math.Abs)
}

// Max returns the largest element, or -Inf when d is empty.
func (d Dense) Max() float64 {
	if d.N() == 0 {
		return math.Inf(-1)
	}
	return floats.Max(d.Data)
}

func (d Dense) Equal(other Dense) bool {
	return d.SameShape(other) && floats.Equal(d.Data, other.Data)
}

func (d Dense) EqualApprox(other Dense, tol float64) bool {
	return d.SameShape(other) && floats.EqualApprox(d.Data, other.Data, tol)
}
