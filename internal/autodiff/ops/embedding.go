package ops

import "github.com/glyph-ml/glyph/internal/tensor"

// EmbeddingOp records out = weight[indices]. Backward scatter-adds
// each output row gradient back onto the gathered weight row; indices
// receive no gradient.
type EmbeddingOp struct {
	Weight, Indices, Out *tensor.RawTensor
}

func (op *EmbeddingOp) Output() *tensor.RawTensor { return op.Out }

func (op *EmbeddingOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	dim := op.Weight.Shape()[1]
	gw := zerosLike(op.Weight)
	dst, g := gw.AsFloat32(), grad.AsFloat32()
	for i, id := range op.Indices.AsInt32() {
		row := dst[int(id)*dim : (int(id)+1)*dim]
		src := g[i*dim : (i+1)*dim]
		for j := range row {
			row[j] += src[j]
		}
	}
	accumulate(grads, op.Weight, gw)
}
