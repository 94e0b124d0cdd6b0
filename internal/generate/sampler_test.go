package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamplerDeterministicWithSeed(t *testing.T) {
	logits := []float32{0.1, 0.5, 0.2, 0.9}
	s1 := NewSampler(7)
	s2 := NewSampler(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, s1.Sample(logits), s2.Sample(logits))
	}
}

func TestSamplerFollowsDistribution(t *testing.T) {
	// One logit dominates: nearly every draw should pick it.
	logits := []float32{0, 0, 20, 0}
	s := NewSampler(1)
	counts := make([]int, 4)
	for i := 0; i < 1000; i++ {
		counts[s.Sample(logits)]++
	}
	assert.Greater(t, counts[2], 990)
}

func TestSamplerUniformLogits(t *testing.T) {
	logits := []float32{3, 3, 3, 3}
	s := NewSampler(2)
	counts := make([]int, 4)
	for i := 0; i < 4000; i++ {
		counts[s.Sample(logits)]++
	}
	for i, c := range counts {
		assert.InDelta(t, 1000, c, 150, "class %d", i)
	}
}

func TestSamplerHugeLogitsStable(t *testing.T) {
	s := NewSampler(3)
	idx := s.Sample([]float32{1e30, 1e30, -1e30})
	assert.Contains(t, []int32{0, 1}, idx)
}

func TestSamplerEmptyLogitsPanics(t *testing.T) {
	s := NewSampler(4)
	assert.Panics(t, func() { s.Sample(nil) })
}

func TestSoftmaxSumsToOne(t *testing.T) {
	probs := softmax([]float32{-2, 0, 5, 1000})
	var sum float32
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, float64(sum), 1e-6)
}
