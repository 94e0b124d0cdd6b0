package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/tensor"
)

func rand2() *rand.Rand { return rand.New(rand.NewSource(7)) }

// Every layer and the assembled model expose their parameters through
// the Module contract.
var (
	_ Module[CPU] = (*Linear[CPU])(nil)
	_ Module[CPU] = (*LayerNorm[CPU])(nil)
	_ Module[CPU] = (*Embedding[CPU])(nil)
	_ Module[CPU] = (*Head[CPU])(nil)
	_ Module[CPU] = (*MultiHeadAttention[CPU])(nil)
	_ Module[CPU] = (*FeedForward[CPU])(nil)
	_ Module[CPU] = (*TransformerBlock[CPU])(nil)
	_ Module[CPU] = (*GPT[CPU])(nil)
)

func testModel(t *testing.T) *GPT[CPU] {
	t.Helper()
	cfg := DefaultConfig(4, 8, 8, 1, 2)
	model, err := NewGPT[CPU](cfg, testRNG(), cpu.New())
	require.NoError(t, err)
	return model
}

func TestGPTLogitsShape(t *testing.T) {
	model := testModel(t)
	idx := tensor.MustFromSlice([]int32{0, 1, 2}, tensor.Shape{1, 3}, cpu.New())
	logits := model.Forward(idx, false)
	assert.Equal(t, tensor.Shape{1, 3, 4}, logits.Shape())
}

func TestGPTForwardDeterministic(t *testing.T) {
	model := testModel(t)
	idx := tensor.MustFromSlice([]int32{3, 0, 2, 1}, tensor.Shape{1, 4}, cpu.New())
	out1 := model.Forward(idx, false)
	out2 := model.Forward(idx, false)
	assert.Equal(t, out1.Data(), out2.Data())
}

func TestGPTRejectsLongSequence(t *testing.T) {
	model := testModel(t)
	idx := tensor.Zeros[int32, CPU](tensor.Shape{1, 9}, cpu.New())
	assert.Panics(t, func() { model.Forward(idx, false) })
}

func TestGPTRejectsNon2DInput(t *testing.T) {
	model := testModel(t)
	idx := tensor.Zeros[int32, CPU](tensor.Shape{3}, cpu.New())
	assert.Panics(t, func() { model.Forward(idx, false) })
}

func TestGPTRejectsOutOfVocabIndex(t *testing.T) {
	model := testModel(t)
	idx := tensor.MustFromSlice([]int32{0, 7}, tensor.Shape{1, 2}, cpu.New())
	assert.Panics(t, func() { model.Forward(idx, false) })
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig(4, 8, 8, 1, 2)
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.EmbedDim = 10
	bad.NumHeads = 3
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.VocabSize = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Dropout = 1
	assert.Error(t, bad.Validate())
}

func TestGPTStateDictRoundTrip(t *testing.T) {
	m1 := testModel(t)
	cfg := m1.Config
	m2, err := NewGPT[CPU](cfg, rand2(), cpu.New())
	require.NoError(t, err)

	idx := tensor.MustFromSlice([]int32{0, 1, 2}, tensor.Shape{1, 3}, cpu.New())
	require.NotEqual(t, m1.Forward(idx, false).Data(), m2.Forward(idx, false).Data())

	require.NoError(t, m2.LoadStateDict(m1.StateDict()))
	assert.Equal(t, m1.Forward(idx, false).Data(), m2.Forward(idx, false).Data())
}

func TestGPTLoadStateDictRejectsMissing(t *testing.T) {
	model := testModel(t)
	dict := model.StateDict()
	delete(dict, "lm_head.bias")
	assert.Error(t, model.LoadStateDict(dict))
}

func TestGPTLoadStateDictRejectsUnknown(t *testing.T) {
	model := testModel(t)
	dict := model.StateDict()
	dict["bogus"] = tensor.MustNewRaw(tensor.Shape{1}, tensor.Float32)
	assert.Error(t, model.LoadStateDict(dict))
}

func TestGPTParameterCountForTinyConfig(t *testing.T) {
	model := testModel(t)
	// tok + pos embeddings, 1 block (2 norms, attn, ffn), final norm,
	// lm head: 2 + (4 + 8 + 4) + 2 + 2.
	assert.Len(t, model.Parameters(), 22)
}
