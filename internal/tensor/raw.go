package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the untyped storage shared by backends: a contiguous
// row-major byte buffer plus shape, strides and dtype. The typed
// Tensor[T, B] wrapper provides the user-facing API.
type RawTensor struct {
	data    []byte
	shape   Shape
	strides []int
	dtype   DataType
}

// NewRaw allocates a zeroed raw tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	size := shape.NumElements() * dtype.Size()
	return &RawTensor{
		data:    make([]byte, size),
		shape:   shape.Clone(),
		strides: ComputeStrides(shape),
		dtype:   dtype,
	}, nil
}

// MustNewRaw is NewRaw that panics on an invalid shape. Backends use it
// for result allocation where shapes are already validated.
func MustNewRaw(shape Shape, dtype DataType) *RawTensor {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return raw
}

func (r *RawTensor) Shape() Shape      { return r.shape }
func (r *RawTensor) Strides() []int    { return r.strides }
func (r *RawTensor) DType() DataType   { return r.dtype }
func (r *RawTensor) NumElements() int  { return r.shape.NumElements() }
func (r *RawTensor) ByteSize() int     { return len(r.data) }
func (r *RawTensor) Data() []byte      { return r.data }

// AsFloat32 views the buffer as []float32 without copying.
// Panics if the dtype does not match.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("RawTensor.AsFloat32: dtype is %s", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt32 views the buffer as []int32 without copying.
// Panics if the dtype does not match.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("RawTensor.AsInt32: dtype is %s", r.dtype))
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// Clone returns a deep copy.
func (r *RawTensor) Clone() *RawTensor {
	out := MustNewRaw(r.shape, r.dtype)
	copy(out.data, r.data)
	return out
}

// WithShape returns a view-copy of the buffer under a new shape with
// the same element count. The data is copied, not aliased.
func (r *RawTensor) WithShape(shape Shape) (*RawTensor, error) {
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("tensor: cannot reshape %v (%d elements) to %v (%d elements)",
			r.shape, r.NumElements(), shape, shape.NumElements())
	}
	out, err := NewRaw(shape, r.dtype)
	if err != nil {
		return nil, err
	}
	copy(out.data, r.data)
	return out, nil
}

func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor(shape=%v, dtype=%s)", r.shape, r.dtype)
}
