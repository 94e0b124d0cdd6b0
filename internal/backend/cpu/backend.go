// Package cpu implements the tensor.Backend contract in pure Go.
// Every operation allocates its result; inputs are never mutated.
// Shape and dtype violations panic, matching the Backend contract.
package cpu

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// CPUBackend is stateless; the zero value is usable but New is the
// conventional constructor.
type CPUBackend struct{}

func New() *CPUBackend { return &CPUBackend{} }

func (b *CPUBackend) Name() string { return "cpu" }

func (b *CPUBackend) Add(a, x *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("Add", a, x, func(p, q float32) float32 { return p + q })
}

func (b *CPUBackend) Sub(a, x *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("Sub", a, x, func(p, q float32) float32 { return p - q })
}

func (b *CPUBackend) Mul(a, x *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("Mul", a, x, func(p, q float32) float32 { return p * q })
}

func (b *CPUBackend) Div(a, x *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("Div", a, x, func(p, q float32) float32 { return p / q })
}

func (b *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.MulScalar: dtype %s not supported", x.DType()))
	}
	out := tensor.MustNewRaw(x.Shape(), tensor.Float32)
	src, dst := x.AsFloat32(), out.AsFloat32()
	for i, v := range src {
		dst[i] = v * scalar
	}
	return out
}

func (b *CPUBackend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	out, err := x.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("cpu.Reshape: %v", err))
	}
	return out
}

// binaryOp applies f elementwise with right-aligned broadcasting.
// Same-shape inputs take a flat fast path.
func (b *CPUBackend) binaryOp(name string, a, x *tensor.RawTensor, f func(p, q float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.%s: dtypes %s, %s not supported", name, a.DType(), x.DType()))
	}
	if a.Shape().Equal(x.Shape()) {
		out := tensor.MustNewRaw(a.Shape(), tensor.Float32)
		pa, px, dst := a.AsFloat32(), x.AsFloat32(), out.AsFloat32()
		for i := range dst {
			dst[i] = f(pa[i], px[i])
		}
		return out
	}
	outShape, err := tensor.BroadcastShapes(a.Shape(), x.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu.%s: %v", name, err))
	}
	out := tensor.MustNewRaw(outShape, tensor.Float32)
	pa, px, dst := a.AsFloat32(), x.AsFloat32(), out.AsFloat32()
	ia := newBroadcastIndexer(outShape, a.Shape())
	ix := newBroadcastIndexer(outShape, x.Shape())
	for i := range dst {
		dst[i] = f(pa[ia.at(i)], px[ix.at(i)])
	}
	return out
}
