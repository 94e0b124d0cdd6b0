package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros returns a tensor filled with zero values.
func Zeros[T DType, B Backend](shape Shape, backend B) *Tensor[T, B] {
	raw := MustNewRaw(shape, DataTypeOf[T]())
	return &Tensor[T, B]{raw: raw, backend: backend}
}

// Ones returns a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, backend B) *Tensor[T, B] {
	return Full[T, B](shape, 1, backend)
}

// Full returns a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, backend B) *Tensor[T, B] {
	t := Zeros[T, B](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn returns a float32 tensor with samples from N(0, stddev²) drawn
// from rng. Callers pass a seeded source for reproducible init.
func Randn[B Backend](shape Shape, stddev float32, rng *rand.Rand, backend B) *Tensor[float32, B] {
	t := Zeros[float32, B](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32(rng.NormFloat64()) * stddev
	}
	return t
}

// Arange returns a 1D int32 tensor holding 0..n-1.
func Arange[B Backend](n int, backend B) *Tensor[int32, B] {
	if n <= 0 {
		panic(fmt.Sprintf("tensor.Arange: n must be positive, got %d", n))
	}
	t := Zeros[int32, B](Shape{n}, backend)
	data := t.Data()
	for i := range data {
		data[i] = int32(i)
	}
	return t
}
