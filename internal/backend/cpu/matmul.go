package cpu

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

func (b *CPUBackend) MatMul(a, x *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.MatMul: dtypes %s, %s not supported", a.DType(), x.DType()))
	}
	as, xs := a.Shape(), x.Shape()
	if len(as) != 2 || len(xs) != 2 {
		panic(fmt.Sprintf("cpu.MatMul: need 2D tensors, got %v and %v", as, xs))
	}
	m, k := as[0], as[1]
	if xs[0] != k {
		panic(fmt.Sprintf("cpu.MatMul: inner dimensions disagree, %v and %v", as, xs))
	}
	n := xs[1]
	out := tensor.MustNewRaw(tensor.Shape{m, n}, tensor.Float32)
	matmulF32(a.AsFloat32(), x.AsFloat32(), out.AsFloat32(), m, k, n)
	return out
}

func (b *CPUBackend) BatchMatMul(a, x *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu.BatchMatMul: dtypes %s, %s not supported", a.DType(), x.DType()))
	}
	as, xs := a.Shape(), x.Shape()
	if len(as) != 3 || len(xs) != 3 {
		panic(fmt.Sprintf("cpu.BatchMatMul: need 3D tensors, got %v and %v", as, xs))
	}
	batch, m, k := as[0], as[1], as[2]
	if xs[0] != batch || xs[1] != k {
		panic(fmt.Sprintf("cpu.BatchMatMul: incompatible shapes %v and %v", as, xs))
	}
	n := xs[2]
	out := tensor.MustNewRaw(tensor.Shape{batch, m, n}, tensor.Float32)
	pa, px, dst := a.AsFloat32(), x.AsFloat32(), out.AsFloat32()
	for bi := 0; bi < batch; bi++ {
		matmulF32(pa[bi*m*k:(bi+1)*m*k], px[bi*k*n:(bi+1)*k*n], dst[bi*m*n:(bi+1)*m*n], m, k, n)
	}
	return out
}

// matmulF32 is a cache-friendly ikj triple loop. Naive but adequate
// for the model sizes this backend targets.
func matmulF32(a, x, out []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		arow := a[i*k : (i+1)*k]
		orow := out[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := arow[p]
			xrow := x[p*n : (p+1)*n]
			for j := 0; j < n; j++ {
				orow[j] += av * xrow[j]
			}
		}
	}
}
