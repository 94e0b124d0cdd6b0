package cpu

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

func (b *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu.Transpose: got %d axes for %d dimensions", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("cpu.Transpose: invalid axes %v for shape %v", axes, shape))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	out := tensor.MustNewRaw(outShape, x.DType())
	srcStrides := x.Strides()
	outStrides := tensor.ComputeStrides(outShape)
	// Flat source index for each output element: output axis i walks
	// source axis axes[i].
	gather := func(flat int) int {
		src, rem := 0, flat
		for i, stride := range outStrides {
			coord := rem / stride
			rem -= coord * stride
			src += coord * srcStrides[axes[i]]
		}
		return src
	}
	switch x.DType() {
	case tensor.Float32:
		srcData, dst := x.AsFloat32(), out.AsFloat32()
		for i := range dst {
			dst[i] = srcData[gather(i)]
		}
	case tensor.Int32:
		srcData, dst := x.AsInt32(), out.AsInt32()
		for i := range dst {
			dst[i] = srcData[gather(i)]
		}
	default:
		panic(fmt.Sprintf("cpu.Transpose: dtype %s not supported", x.DType()))
	}
	return out
}

func (b *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape) + 1
	}
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("cpu.Unsqueeze: dim %d out of range for shape %v", dim, shape))
	}
	outShape := make(tensor.Shape, 0, len(shape)+1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, 1)
	outShape = append(outShape, shape[dim:]...)
	return b.Reshape(x, outShape)
}

func (b *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cpu.Cat: no tensors")
	}
	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cpu.Cat: dim %d out of range for shape %v", dim, first.Shape()))
	}
	outShape := first.Shape().Clone()
	for _, t := range tensors[1:] {
		s := t.Shape()
		if len(s) != ndim || t.DType() != first.DType() {
			panic(fmt.Sprintf("cpu.Cat: mismatched tensors %v and %v", first, t))
		}
		for i := range s {
			if i != dim && s[i] != outShape[i] {
				panic(fmt.Sprintf("cpu.Cat: shapes %v and %v differ outside dim %d",
					first.Shape(), s, dim))
			}
		}
		outShape[dim] += s[dim]
	}
	if first.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.Cat: dtype %s not supported", first.DType()))
	}

	out := tensor.MustNewRaw(outShape, tensor.Float32)
	dst := out.AsFloat32()
	// Copy block-wise: each input contributes contiguous runs of
	// inner*size elements per outer slice.
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= outShape[i]
	}
	offset := 0
	for _, t := range tensors {
		size := t.Shape()[dim]
		src := t.AsFloat32()
		for o := 0; o < outer; o++ {
			srcStart := o * size * inner
			dstStart := o*outShape[dim]*inner + offset*inner
			copy(dst[dstStart:dstStart+size*inner], src[srcStart:srcStart+size*inner])
		}
		offset += size
	}
	return out
}
