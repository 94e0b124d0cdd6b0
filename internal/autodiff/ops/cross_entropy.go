package ops

import (
	"math"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// CrossEntropyOp records the fused mean softmax cross-entropy of
// (n, classes) logits against (n,) targets. Backward is the classic
// (softmax - onehot) / n, scaled by the incoming scalar gradient.
type CrossEntropyOp struct {
	Logits, Targets, Out *tensor.RawTensor
}

func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.Out }

func (op *CrossEntropyOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	ls := op.Logits.Shape()
	n, classes := ls[0], ls[1]
	gscale := grad.AsFloat32()[0] / float32(n)

	gin := zerosLike(op.Logits)
	src, tgt, dst := op.Logits.AsFloat32(), op.Targets.AsInt32(), gin.AsFloat32()
	for i := 0; i < n; i++ {
		row := src[i*classes : (i+1)*classes]
		out := dst[i*classes : (i+1)*classes]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sum float64
		for _, v := range row {
			sum += math.Exp(float64(v - maxVal))
		}
		inv := 1.0 / sum
		for c := range row {
			out[c] = float32(math.Exp(float64(row[c]-maxVal))*inv) * gscale
		}
		out[tgt[i]] -= gscale
	}
	accumulate(grads, op.Logits, gin)
}
