package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/autodiff"
	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/tensor"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

func rawF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw := tensor.MustNewRaw(shape, tensor.Float32)
	require.Len(t, data, shape.NumElements())
	copy(raw.AsFloat32(), data)
	return raw
}

func TestBackwardSquare(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := rawF32(t, []float32{3}, tensor.Shape{1})
	loss := b.Mul(x, x)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	// d(x²)/dx = 2x.
	assert.InDelta(t, 6.0, grads[x].AsFloat32()[0], 1e-6)
}

func TestBackwardMeanSpreadsGradient(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := rawF32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	loss := b.MeanDim(x, 0, false)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.25, 0.25, 0.25, 0.25}, grads[x].AsFloat32(), 1e-6)
}

func TestBackwardAddBroadcastReduces(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := rawF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	bias := rawF32(t, []float32{10, 20}, tensor.Shape{2})
	sum := b.Add(x, bias)
	flat := b.Reshape(sum, tensor.Shape{4})
	loss := b.MeanDim(flat, 0, false)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.25, 0.25, 0.25, 0.25}, grads[x].AsFloat32(), 1e-6)
	// Each bias element feeds two output elements.
	assert.InDeltaSlice(t, []float32{0.5, 0.5}, grads[bias].AsFloat32(), 1e-6)
}

func TestBackwardMatMul(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	a := rawF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	w := rawF32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	prod := b.MatMul(a, w)
	flat := b.Reshape(prod, tensor.Shape{4})
	loss := b.MeanDim(flat, 0, false)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	// Loss gradient on prod is 0.25 everywhere, so
	// dA = G @ Wᵀ and dW = Aᵀ @ G with G = 0.25 * ones.
	assert.InDeltaSlice(t, []float32{2.75, 3.75, 2.75, 3.75}, grads[a].AsFloat32(), 1e-5)
	assert.InDeltaSlice(t, []float32{1, 1, 1.5, 1.5}, grads[w].AsFloat32(), 1e-5)
}

func TestBackwardSoftmaxRowGradSumsToZero(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := rawF32(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
	s := b.Softmax(x, 1)
	flat := b.Reshape(s, tensor.Shape{3})
	// Pick out one softmax entry via a dot with a basis vector.
	basis := rawF32(t, []float32{0, 1, 0}, tensor.Shape{3})
	picked := b.Mul(flat, basis)
	loss := b.MeanDim(picked, 0, false)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	g := grads[x].AsFloat32()
	assert.InDelta(t, 0.0, float64(g[0]+g[1]+g[2]), 1e-6)
	assert.Positive(t, g[1])
}

func TestBackwardEmbeddingScatterAdds(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	weight := rawF32(t, []float32{1, 1, 2, 2}, tensor.Shape{2, 2})
	indices := tensor.MustNewRaw(tensor.Shape{3}, tensor.Int32)
	copy(indices.AsInt32(), []int32{1, 1, 0})

	emb := b.Embedding(weight, indices) // (3, 2)
	flat := b.Reshape(emb, tensor.Shape{6})
	loss := b.MeanDim(flat, 0, false)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	g := grads[weight].AsFloat32()
	// Row 1 is gathered twice, row 0 once; 1/6 per output element.
	assert.InDeltaSlice(t, []float32{1.0 / 6, 1.0 / 6, 2.0 / 6, 2.0 / 6}, g, 1e-6)
}

func TestBackwardCrossEntropy(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	logits := rawF32(t, make([]float32, 6), tensor.Shape{2, 3})
	targets := tensor.MustNewRaw(tensor.Shape{2}, tensor.Int32)
	copy(targets.AsInt32(), []int32{0, 2})
	loss := b.CrossEntropy(logits, targets)
	b.Tape().StopRecording()

	grads, err := b.Backward(loss)
	require.NoError(t, err)
	g := grads[logits].AsFloat32()
	for r := 0; r < 2; r++ {
		var sum float32
		for c := 0; c < 3; c++ {
			sum += g[r*3+c]
		}
		assert.InDelta(t, 0.0, float64(sum), 1e-6)
	}
	// Uniform logits: softmax is 1/3, target entry gets (1/3 - 1)/2.
	assert.InDelta(t, (1.0/3-1)/2, float64(g[0]), 1e-6)
	assert.InDelta(t, (1.0/3)/2, float64(g[1]), 1e-6)
}

func TestBackwardRequiresScalarLoss(t *testing.T) {
	b := newBackend()
	x := rawF32(t, []float32{1, 2}, tensor.Shape{2})
	_, err := b.Backward(x)
	assert.Error(t, err)
}

func TestTapeClearDropsOperations(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()
	x := rawF32(t, []float32{1}, tensor.Shape{1})
	b.Mul(x, x)
	require.Equal(t, 1, b.Tape().Len())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().Len())
}

func TestNoRecordingWithoutStart(t *testing.T) {
	b := newBackend()
	x := rawF32(t, []float32{1}, tensor.Shape{1})
	b.Mul(x, x)
	assert.Equal(t, 0, b.Tape().Len())
}
