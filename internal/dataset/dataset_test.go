package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/tensor"
)

type CPU = *cpu.CPUBackend

func sequential(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i)
	}
	return out
}

func TestNextShapes(t *testing.T) {
	b, err := New[CPU](sequential(100), 8, 4, 1, cpu.New())
	require.NoError(t, err)
	in, tgt := b.Next()
	assert.Equal(t, tensor.Shape{4, 8}, in.Shape())
	assert.Equal(t, tensor.Shape{4, 8}, tgt.Shape())
}

func TestTargetsShiftedByOne(t *testing.T) {
	b, err := New[CPU](sequential(100), 8, 4, 1, cpu.New())
	require.NoError(t, err)
	in, tgt := b.Next()
	// The corpus is 0..99, so each target equals its input plus one.
	for i, v := range in.Data() {
		assert.Equal(t, v+1, tgt.Data()[i])
	}
}

func TestWindowsStayInBounds(t *testing.T) {
	// Smallest legal corpus: contextLength + 1 tokens.
	b, err := New[CPU](sequential(9), 8, 16, 1, cpu.New())
	require.NoError(t, err)
	in, tgt := b.Next()
	assert.Equal(t, sequential(8), in.Data()[:8])
	assert.Equal(t, int32(8), tgt.Data()[7])
}

func TestSeedReproducible(t *testing.T) {
	b1, err := New[CPU](sequential(500), 8, 4, 42, cpu.New())
	require.NoError(t, err)
	b2, err := New[CPU](sequential(500), 8, 4, 42, cpu.New())
	require.NoError(t, err)
	in1, _ := b1.Next()
	in2, _ := b2.Next()
	assert.Equal(t, in1.Data(), in2.Data())
}

func TestRejectsShortCorpus(t *testing.T) {
	_, err := New[CPU](sequential(8), 8, 4, 1, cpu.New())
	assert.Error(t, err)
}

func TestRejectsBadSizes(t *testing.T) {
	_, err := New[CPU](sequential(100), 0, 4, 1, cpu.New())
	assert.Error(t, err)
	_, err = New[CPU](sequential(100), 8, 0, 1, cpu.New())
	assert.Error(t, err)
}
