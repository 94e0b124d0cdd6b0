package cpu

import (
	"fmt"
	"math"

	"github.com/glyph-ml/glyph/internal/tensor"
)

func (b *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.Rsqrt: dtype %s not supported", x.DType()))
	}
	out := tensor.MustNewRaw(x.Shape(), tensor.Float32)
	src, dst := x.AsFloat32(), out.AsFloat32()
	for i, v := range src {
		if v <= 0 {
			panic(fmt.Sprintf("cpu.Rsqrt: non-positive input %g at element %d", v, i))
		}
		dst[i] = float32(1.0 / math.Sqrt(float64(v)))
	}
	return out
}

func (b *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.ReLU: dtype %s not supported", x.DType()))
	}
	out := tensor.MustNewRaw(x.Shape(), tensor.Float32)
	src, dst := x.AsFloat32(), out.AsFloat32()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
	return out
}
