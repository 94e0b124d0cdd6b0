package generate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/tensor"
)

type CPU = *cpu.CPUBackend

// recordingModel captures the sequence lengths it is fed and returns
// uniform logits.
type recordingModel struct {
	vocab    int
	seenLens []int
}

func (m *recordingModel) Forward(indices *tensor.Tensor[int32, CPU], train bool) *tensor.Tensor[float32, CPU] {
	shape := indices.Shape()
	m.seenLens = append(m.seenLens, shape[1])
	return tensor.Zeros[float32, CPU](tensor.Shape{shape[0], shape[1], m.vocab}, cpu.New())
}

func TestGeneratorAppendsToHistory(t *testing.T) {
	model := &recordingModel{vocab: 4}
	g := NewGenerator[CPU](model, 8, NewSampler(1), cpu.New())

	out := g.Generate([][]int32{{0, 1, 2}}, 2)
	require.Len(t, out, 1)
	assert.Len(t, out[0], 5)
	assert.Equal(t, []int32{0, 1, 2}, out[0][:3])
	for _, tok := range out[0] {
		assert.GreaterOrEqual(t, tok, int32(0))
		assert.Less(t, tok, int32(4))
	}
}

func TestGeneratorSlidesWindow(t *testing.T) {
	model := &recordingModel{vocab: 4}
	g := NewGenerator[CPU](model, 4, NewSampler(1), cpu.New())

	out := g.Generate([][]int32{{0, 1}}, 5)
	assert.Len(t, out[0], 7)
	// Window grows until it hits the context length, then stays there.
	assert.Equal(t, []int{2, 3, 4, 4, 4}, model.seenLens)
}

func TestGeneratorBatchedSequences(t *testing.T) {
	model := &recordingModel{vocab: 4}
	g := NewGenerator[CPU](model, 8, NewSampler(1), cpu.New())

	out := g.Generate([][]int32{{0, 1}, {2, 3}}, 3)
	require.Len(t, out, 2)
	assert.Len(t, out[0], 5)
	assert.Len(t, out[1], 5)
	assert.Equal(t, []int32{0, 1}, out[0][:2])
	assert.Equal(t, []int32{2, 3}, out[1][:2])
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	b := cpu.New()
	cfg := nn.DefaultConfig(4, 8, 8, 1, 2)
	model, err := nn.NewGPT[CPU](cfg, rand.New(rand.NewSource(42)), b)
	require.NoError(t, err)

	g1 := NewGenerator[CPU](model, cfg.ContextLength, NewSampler(9), b)
	g2 := NewGenerator[CPU](model, cfg.ContextLength, NewSampler(9), b)
	assert.Equal(t, g1.Generate([][]int32{{0, 1, 2}}, 6), g2.Generate([][]int32{{0, 1, 2}}, 6))
}

func TestGeneratorWithGPTEndToEnd(t *testing.T) {
	b := cpu.New()
	cfg := nn.DefaultConfig(4, 8, 8, 1, 2)
	model, err := nn.NewGPT[CPU](cfg, rand.New(rand.NewSource(42)), b)
	require.NoError(t, err)

	g := NewGenerator[CPU](model, cfg.ContextLength, NewSampler(1), b)
	out := g.Generate([][]int32{{0, 1, 2}}, 2)
	require.Len(t, out, 1)
	assert.Len(t, out[0], 5)
	for _, tok := range out[0] {
		assert.GreaterOrEqual(t, tok, int32(0))
		assert.Less(t, tok, int32(4))
	}
	// Long generations must keep working past the context length.
	long := g.Generate([][]int32{{0}}, 20)
	assert.Len(t, long[0], 21)
}

func TestGeneratorValidatesInput(t *testing.T) {
	g := NewGenerator[CPU](&recordingModel{vocab: 4}, 8, NewSampler(1), cpu.New())
	assert.Panics(t, func() { g.Generate(nil, 1) })
	assert.Panics(t, func() { g.Generate([][]int32{{}}, 1) })
	assert.Panics(t, func() { g.Generate([][]int32{{0, 1}, {2}}, 1) })
	assert.Panics(t, func() { g.Generate([][]int32{{0}}, -1) })
}
