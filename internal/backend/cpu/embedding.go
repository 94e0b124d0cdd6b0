package cpu

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

func (b *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	if weight.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.Embedding: weight dtype %s not supported", weight.DType()))
	}
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("cpu.Embedding: indices dtype %s not supported", indices.DType()))
	}
	ws := weight.Shape()
	if len(ws) != 2 {
		panic(fmt.Sprintf("cpu.Embedding: weight must be 2D, got %v", ws))
	}
	vocab, dim := ws[0], ws[1]

	outShape := append(indices.Shape().Clone(), dim)
	out := tensor.MustNewRaw(outShape, tensor.Float32)
	wdata, idx, dst := weight.AsFloat32(), indices.AsInt32(), out.AsFloat32()
	for i, id := range idx {
		if id < 0 || int(id) >= vocab {
			panic(fmt.Sprintf("cpu.Embedding: index %d out of range [0, %d)", id, vocab))
		}
		copy(dst[i*dim:(i+1)*dim], wdata[int(id)*dim:(int(id)+1)*dim])
	}
	return out
}
