package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/tensor"
)

func randInput(seq, dim int) *tensor.Tensor[float32, CPU] {
	return tensor.Randn(tensor.Shape{1, seq, dim}, 1, testRNG(), cpu.New())
}

func TestHeadOutputShape(t *testing.T) {
	h := NewHead[CPU]("h", 8, 4, testRNG(), cpu.New())
	out := h.Forward(randInput(5, 8))
	assert.Equal(t, tensor.Shape{1, 5, 4}, out.Shape())
}

func TestHeadAttentionWeightsAreCausal(t *testing.T) {
	h := NewHead[CPU]("h", 8, 4, testRNG(), cpu.New())
	_, weights := h.ForwardWithWeights(randInput(6, 8))
	require.Equal(t, tensor.Shape{1, 6, 6}, weights.Shape())

	data := weights.Data()
	for i := 0; i < 6; i++ {
		var sum float32
		for j := 0; j < 6; j++ {
			w := data[i*6+j]
			if j > i {
				assert.Zero(t, w, "weight (%d, %d) attends to the future", i, j)
			} else {
				assert.GreaterOrEqual(t, w, float32(0))
			}
			sum += w
		}
		assert.InDelta(t, 1.0, float64(sum), 1e-5, "row %d", i)
	}
}

func TestHeadCausality(t *testing.T) {
	b := cpu.New()
	h := NewHead[CPU]("h", 4, 2, testRNG(), b)

	x1 := tensor.Randn(tensor.Shape{1, 5, 4}, 1, testRNG(), b)
	x2 := x1.Clone()
	// Corrupt only the last position.
	for c := 0; c < 4; c++ {
		x2.Set(99, 0, 4, c)
	}

	out1 := h.Forward(x1).Data()
	out2 := h.Forward(x2).Data()
	// Positions 0..3 must be untouched by the change at position 4.
	assert.InDeltaSlice(t, out1[:4*2], out2[:4*2], 1e-6)
	// Position 4 must see the change.
	assert.NotEqual(t, out1[4*2:], out2[4*2:])
}

func TestHeadSingleTokenAttendsToItself(t *testing.T) {
	h := NewHead[CPU]("h", 4, 2, testRNG(), cpu.New())
	_, weights := h.ForwardWithWeights(randInput(1, 4))
	assert.InDelta(t, 1.0, float64(weights.Data()[0]), 1e-6)
}

func TestHeadRejectsWrongEmbedDim(t *testing.T) {
	h := NewHead[CPU]("h", 8, 4, testRNG(), cpu.New())
	assert.Panics(t, func() { h.Forward(randInput(3, 6)) })
}
