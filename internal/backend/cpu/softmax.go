package cpu

import (
	"fmt"
	"math"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Softmax normalizes along dim with the usual max-subtraction trick,
// so large logits and -Inf masked entries are both safe: exp(-Inf)
// contributes exactly 0 to the slice.
func (b *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.Softmax: dtype %s not supported", x.DType()))
	}
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu.Softmax: dim %d out of range for shape %v", dim, shape))
	}
	out := tensor.MustNewRaw(shape, tensor.Float32)
	src, dst := x.AsFloat32(), out.AsFloat32()

	size := shape[dim]
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	outer := x.NumElements() / (size * inner)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*size*inner + in

			maxVal := float32(math.Inf(-1))
			for i := 0; i < size; i++ {
				if v := src[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}
			var sum float32
			for i := 0; i < size; i++ {
				e := float32(math.Exp(float64(src[base+i*inner] - maxVal)))
				dst[base+i*inner] = e
				sum += e
			}
			for i := 0; i < size; i++ {
				dst[base+i*inner] /= sum
			}
		}
	}
	return out
}
