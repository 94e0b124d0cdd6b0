package ops

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// zerosLike allocates a zeroed float32 tensor with t's shape.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	return tensor.MustNewRaw(t.Shape(), tensor.Float32)
}

// negate returns -t.
func negate(t *tensor.RawTensor) *tensor.RawTensor {
	out := zerosLike(t)
	src, dst := t.AsFloat32(), out.AsFloat32()
	for i, v := range src {
		dst[i] = -v
	}
	return out
}

// scale returns t * s.
func scale(t *tensor.RawTensor, s float32) *tensor.RawTensor {
	out := zerosLike(t)
	src, dst := t.AsFloat32(), out.AsFloat32()
	for i, v := range src {
		dst[i] = v * s
	}
	return out
}

// binaryBroadcast applies f elementwise over broadcast operands.
// Shared by the arithmetic backward passes, which need products and
// quotients of gradients with forward operands of differing shapes.
func binaryBroadcast(a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	outShape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("autodiff: %v", err))
	}
	out := tensor.MustNewRaw(outShape, tensor.Float32)
	pa, pb, dst := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
	ia := newIndexer(outShape, a.Shape())
	ib := newIndexer(outShape, b.Shape())
	for i := range dst {
		dst[i] = f(pa[ia.at(i)], pb[ib.at(i)])
	}
	return out
}

// reduceBroadcast sums grad down to target, undoing broadcasting: the
// gradient of an expanded operand is the sum over every position the
// element was replicated to.
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad.Clone()
	}
	out := tensor.MustNewRaw(target, tensor.Float32)
	src, dst := grad.AsFloat32(), out.AsFloat32()
	idx := newIndexer(grad.Shape(), target)
	for i, v := range src {
		dst[idx.at(i)] += v
	}
	return out
}

// broadcastTo expands src up to target shape by replication.
func broadcastTo(src *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	out := tensor.MustNewRaw(target, tensor.Float32)
	data, dst := src.AsFloat32(), out.AsFloat32()
	idx := newIndexer(target, src.Shape())
	for i := range dst {
		dst[i] = data[idx.at(i)]
	}
	return out
}

// matmul2D computes (m,k) x (k,n) on flat float32 slices.
func matmul2D(a, b *tensor.RawTensor) *tensor.RawTensor {
	as, bs := a.Shape(), b.Shape()
	m, k, n := as[0], as[1], bs[1]
	out := tensor.MustNewRaw(tensor.Shape{m, n}, tensor.Float32)
	matmulInto(a.AsFloat32(), b.AsFloat32(), out.AsFloat32(), m, k, n)
	return out
}

func matmulInto(a, b, out []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		arow := a[i*k : (i+1)*k]
		orow := out[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := arow[p]
			brow := b[p*n : (p+1)*n]
			for j := 0; j < n; j++ {
				orow[j] += av * brow[j]
			}
		}
	}
}

// transpose2D swaps the two axes of a 2D tensor.
func transpose2D(t *tensor.RawTensor) *tensor.RawTensor {
	s := t.Shape()
	rows, cols := s[0], s[1]
	out := tensor.MustNewRaw(tensor.Shape{cols, rows}, tensor.Float32)
	src, dst := t.AsFloat32(), out.AsFloat32()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dst[c*rows+r] = src[r*cols+c]
		}
	}
	return out
}

// permute rearranges axes of a float32 tensor, the backward companion
// of Transpose.
func permute(t *tensor.RawTensor, axes []int) *tensor.RawTensor {
	shape := t.Shape()
	outShape := make(tensor.Shape, len(axes))
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	out := tensor.MustNewRaw(outShape, tensor.Float32)
	src, dst := t.AsFloat32(), out.AsFloat32()
	srcStrides := t.Strides()
	outStrides := tensor.ComputeStrides(outShape)
	for i := range dst {
		srcIdx, rem := 0, i
		for d, stride := range outStrides {
			coord := rem / stride
			rem -= coord * stride
			srcIdx += coord * srcStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}
	return out
}

// indexer maps flat indices of a large shape onto a right-aligned
// smaller shape, with stride 0 for size-1 and missing dimensions.
type indexer struct {
	outStrides []int
	srcStrides []int
}

func newIndexer(outShape, srcShape tensor.Shape) indexer {
	outStrides := tensor.ComputeStrides(outShape)
	srcStrides := make([]int, len(outShape))
	real := tensor.ComputeStrides(srcShape)
	offset := len(outShape) - len(srcShape)
	for i := range outShape {
		if i < offset {
			continue
		}
		if srcShape[i-offset] != 1 {
			srcStrides[i] = real[i-offset]
		}
	}
	return indexer{outStrides: outStrides, srcStrides: srcStrides}
}

func (ix indexer) at(flat int) int {
	src, rem := 0, flat
	for i, stride := range ix.outStrides {
		coord := rem / stride
		rem -= coord * stride
		src += coord * ix.srcStrides[i]
	}
	return src
}
