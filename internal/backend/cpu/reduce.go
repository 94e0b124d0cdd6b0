package cpu

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

func (b *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.MeanDim: dtype %s not supported", x.DType()))
	}
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu.MeanDim: dim %d out of range for shape %v", dim, shape))
	}

	size := shape[dim]
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	outer := x.NumElements() / (size * inner)

	outShape := make(tensor.Shape, 0, len(shape))
	outShape = append(outShape, shape[:dim]...)
	if keepDim {
		outShape = append(outShape, 1)
	}
	outShape = append(outShape, shape[dim+1:]...)
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	out := tensor.MustNewRaw(outShape, tensor.Float32)
	src, dst := x.AsFloat32(), out.AsFloat32()
	inv := 1.0 / float32(size)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var sum float32
			base := o*size*inner + in
			for i := 0; i < size; i++ {
				sum += src[base+i*inner]
			}
			dst[o*inner+in] = sum * inv
		}
	}
	return out
}
