package serialization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/tensor"
)

func sampleState() map[string]*tensor.RawTensor {
	w := tensor.MustNewRaw(tensor.Shape{2, 3}, tensor.Float32)
	copy(w.AsFloat32(), []float32{1, 2, 3, 4, 5, 6})
	b := tensor.MustNewRaw(tensor.Shape{3}, tensor.Float32)
	copy(b.AsFloat32(), []float32{-1, 0, 1})
	return map[string]*tensor.RawTensor{"w": w, "b": b}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.glyph")
	model := ModelMeta{VocabSize: 4, ContextLength: 8, EmbedDim: 8, NumBlocks: 1, NumHeads: 2, Dropout: 0.2}
	require.NoError(t, Write(path, Checkpoint{State: sampleState(), Model: model, Step: 100}))

	ckpt, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, model, ckpt.Model)
	assert.Equal(t, 100, ckpt.Step)
	assert.NotEmpty(t, ckpt.RunID)

	require.Contains(t, ckpt.State, "w")
	require.Contains(t, ckpt.State, "b")
	assert.Equal(t, tensor.Shape{2, 3}, ckpt.State["w"].Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, ckpt.State["w"].AsFloat32())
	assert.Equal(t, []float32{-1, 0, 1}, ckpt.State["b"].AsFloat32())
}

func TestReadRejectsCorruptedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.glyph")
	require.NoError(t, Write(path, Checkpoint{State: sampleState()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Read(path)
	assert.ErrorContains(t, err, "digest mismatch")
}

func TestReadRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.glyph")
	require.NoError(t, os.WriteFile(path, []byte("NOPE0000"), 0o644))
	_, err := Read(path)
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.glyph"))
	assert.Error(t, err)
}

func TestWriteRejectsEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.glyph")
	assert.Error(t, Write(path, Checkpoint{}))
}

func TestWriteKeepsExplicitRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.glyph")
	require.NoError(t, Write(path, Checkpoint{State: sampleState(), RunID: "run-1"}))
	ckpt, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "run-1", ckpt.RunID)
}
