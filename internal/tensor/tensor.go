// Package tensor provides the typed n-dimensional array at the core of
// glyph: a generic Tensor[T, B] over an untyped RawTensor buffer, with
// all computation delegated to a pluggable Backend.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a typed view over a RawTensor bound to a backend. The type
// parameter T fixes the element type at compile time; B carries the
// backend so that mixing tensors from different backends is a compile
// error rather than a runtime surprise.
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New wraps an existing raw tensor. Panics if the raw dtype does not
// match T.
func New[T DType, B Backend](raw *RawTensor, backend B) *Tensor[T, B] {
	if raw.DType() != DataTypeOf[T]() {
		panic(fmt.Sprintf("tensor.New: raw dtype %s does not match element type %s",
			raw.DType(), DataTypeOf[T]()))
	}
	return &Tensor[T, B]{raw: raw, backend: backend}
}

// FromSlice builds a tensor from a flat slice in row-major order.
func FromSlice[T DType, B Backend](data []T, shape Shape, backend B) (*Tensor[T, B], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	raw, err := NewRaw(shape, DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(typedData[T](raw), data)
	return &Tensor[T, B]{raw: raw, backend: backend}, nil
}

// MustFromSlice is FromSlice that panics on error. Intended for tests
// and literals with statically known shapes.
func MustFromSlice[T DType, B Backend](data []T, shape Shape, backend B) *Tensor[T, B] {
	t, err := FromSlice(data, shape, backend)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return t
}

func (t *Tensor[T, B]) Raw() *RawTensor   { return t.raw }
func (t *Tensor[T, B]) Backend() B        { return t.backend }
func (t *Tensor[T, B]) Shape() Shape      { return t.raw.Shape() }
func (t *Tensor[T, B]) DType() DataType   { return t.raw.DType() }
func (t *Tensor[T, B]) NumElements() int  { return t.raw.NumElements() }

// Data returns the underlying elements without copying. Mutating the
// slice mutates the tensor.
func (t *Tensor[T, B]) Data() []T {
	return typedData[T](t.raw)
}

// At reads the element at the given coordinates.
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.flatIndex(indices)]
}

// Set writes the element at the given coordinates.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.flatIndex(indices)] = value
}

// Item returns the sole element of a one-element tensor.
func (t *Tensor[T, B]) Item() T {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Tensor.Item: tensor has %d elements", t.NumElements()))
	}
	return t.Data()[0]
}

// Clone returns a deep copy.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.raw.Clone(), backend: t.backend}
}

func (t *Tensor[T, B]) flatIndex(indices []int) int {
	shape := t.raw.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("tensor: got %d indices for shape %v", len(indices), shape))
	}
	strides := t.raw.Strides()
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d (size %d)",
				idx, i, shape[i]))
		}
		flat += idx * strides[i]
	}
	return flat
}

func (t *Tensor[T, B]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor(shape=%v, dtype=%s, backend=%s)",
		t.Shape(), t.DType(), t.backend.Name())
	return sb.String()
}

func typedData[T DType](raw *RawTensor) []T {
	switch DataTypeOf[T]() {
	case Float32:
		return any(raw.AsFloat32()).([]T)
	case Int32:
		return any(raw.AsInt32()).([]T)
	default:
		panic("tensor: unreachable dtype")
	}
}
