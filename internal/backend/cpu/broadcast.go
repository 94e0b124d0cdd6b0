package cpu

import "github.com/glyph-ml/glyph/internal/tensor"

// broadcastIndexer maps a flat index in the broadcast output shape to
// the flat index of a (possibly smaller) source shape. Size-1 source
// dimensions get stride 0, so the same element is read repeatedly.
type broadcastIndexer struct {
	outStrides []int
	srcStrides []int
}

func newBroadcastIndexer(outShape, srcShape tensor.Shape) broadcastIndexer {
	outStrides := tensor.ComputeStrides(outShape)
	srcStrides := make([]int, len(outShape))
	real := tensor.ComputeStrides(srcShape)
	offset := len(outShape) - len(srcShape)
	for i := range outShape {
		if i < offset {
			continue // dimension missing in source, stride stays 0
		}
		if srcShape[i-offset] != 1 {
			srcStrides[i] = real[i-offset]
		}
	}
	return broadcastIndexer{outStrides: outStrides, srcStrides: srcStrides}
}

func (bi broadcastIndexer) at(flat int) int {
	src := 0
	rem := flat
	for i, stride := range bi.outStrides {
		coord := rem / stride
		rem -= coord * stride
		src += coord * bi.srcStrides[i]
	}
	return src
}
