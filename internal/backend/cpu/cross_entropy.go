package cpu

import (
	"fmt"
	"math"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// CrossEntropy computes mean softmax cross-entropy over (n, classes)
// logits against (n,) int32 class targets, returning a scalar. Uses
// the log-sum-exp form for stability.
func (b *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	if logits.DType() != tensor.Float32 || targets.DType() != tensor.Int32 {
		panic(fmt.Sprintf("cpu.CrossEntropy: dtypes %s, %s not supported",
			logits.DType(), targets.DType()))
	}
	ls, ts := logits.Shape(), targets.Shape()
	if len(ls) != 2 || len(ts) != 1 || ls[0] != ts[0] {
		panic(fmt.Sprintf("cpu.CrossEntropy: incompatible shapes %v and %v", ls, ts))
	}
	n, classes := ls[0], ls[1]
	src, tgt := logits.AsFloat32(), targets.AsInt32()

	var total float64
	for i := 0; i < n; i++ {
		row := src[i*classes : (i+1)*classes]
		t := tgt[i]
		if t < 0 || int(t) >= classes {
			panic(fmt.Sprintf("cpu.CrossEntropy: target %d out of range [0, %d)", t, classes))
		}
		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		total += math.Log(sumExp) - float64(row[t]-maxVal)
	}

	out := tensor.MustNewRaw(tensor.Shape{1}, tensor.Float32)
	out.AsFloat32()[0] = float32(total / float64(n))
	return out
}
