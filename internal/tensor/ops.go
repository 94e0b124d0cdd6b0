package tensor

import "fmt"

// Arithmetic and shape methods delegate to the backend and wrap the
// raw result back into a typed tensor. Both operands must share a
// backend instance; the type system already guarantees the same
// backend type.

func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Add(t.raw, other.raw))
}

func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Sub(t.raw, other.raw))
}

func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Mul(t.raw, other.raw))
}

func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Div(t.raw, other.raw))
}

// MulScalar scales every element. Float32 tensors only.
func (t *Tensor[T, B]) MulScalar(scalar float32) *Tensor[T, B] {
	return t.wrap(t.backend.MulScalar(t.raw, scalar))
}

// MatMul multiplies two 2D tensors.
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.MatMul(t.raw, other.raw))
}

// BatchMatMul multiplies two 3D tensors batch-wise.
func (t *Tensor[T, B]) BatchMatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return t.wrap(t.backend.BatchMatMul(t.raw, other.raw))
}

// Reshape returns the same elements under a new shape.
func (t *Tensor[T, B]) Reshape(shape Shape) *Tensor[T, B] {
	return t.wrap(t.backend.Reshape(t.raw, shape))
}

// Transpose permutes axes; with no arguments it reverses them.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return t.wrap(t.backend.Transpose(t.raw, axes...))
}

// Unsqueeze inserts a size-1 dimension at dim. Negative dims count
// from the end of the result shape.
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	return t.wrap(t.backend.Unsqueeze(t.raw, dim))
}

// Softmax normalizes along dim. Negative dims count from the end.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return t.wrap(t.backend.Softmax(t.raw, normDim(dim, len(t.Shape()))))
}

// MeanDim averages along dim.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	return t.wrap(t.backend.MeanDim(t.raw, normDim(dim, len(t.Shape())), keepDim))
}

// Rsqrt computes 1/sqrt(x) elementwise.
func (t *Tensor[T, B]) Rsqrt() *Tensor[T, B] {
	return t.wrap(t.backend.Rsqrt(t.raw))
}

// ReLU computes max(0, x) elementwise.
func (t *Tensor[T, B]) ReLU() *Tensor[T, B] {
	return t.wrap(t.backend.ReLU(t.raw))
}

// Embedding gathers rows of this (vocab, dim) table by indices.
func (t *Tensor[T, B]) Embedding(indices *Tensor[int32, B]) *Tensor[T, B] {
	return t.wrap(t.backend.Embedding(t.raw, indices.raw))
}

// Cat concatenates tensors along dim. Negative dims count from the
// end. At least one tensor is required.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("tensor.Cat: no tensors")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}
	first := tensors[0]
	return first.wrap(first.backend.Cat(raws, normDim(dim, len(first.Shape()))))
}

func (t *Tensor[T, B]) wrap(raw *RawTensor) *Tensor[T, B] {
	return &Tensor[T, B]{raw: raw, backend: t.backend}
}

func normDim(dim, ndim int) int {
	d := dim
	if d < 0 {
		d += ndim
	}
	if d < 0 || d >= ndim {
		panic(fmt.Sprintf("tensor: dim %d out of range for %d dimensions", dim, ndim))
	}
	return d
}
