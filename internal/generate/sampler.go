// Package generate turns a trained model into an autoregressive text
// generator: feed the trailing context window, sample the next token
// from the softmax of the last position's logits, append, repeat.
package generate

import (
	"fmt"
	"math"
	"math/rand"
)

// Sampler draws token indices from logits by multinomial sampling over
// the softmax distribution. A fixed seed makes generation reproducible.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one index proportional to softmax(logits).
func (s *Sampler) Sample(logits []float32) int32 {
	if len(logits) == 0 {
		panic("Sampler.Sample: empty logits")
	}
	probs := softmax(logits)
	r := s.rng.Float32()
	var cum float32
	for i, p := range probs {
		cum += p
		if r < cum {
			return int32(i)
		}
	}
	// Rounding left r at or beyond the cumulative sum.
	return int32(len(probs) - 1)
}

// softmax is the numerically stable variant with max subtraction.
func softmax(logits []float32) []float32 {
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	probs := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		e := float32(math.Exp(float64(v - maxVal)))
		probs[i] = e
		sum += e
	}
	if sum == 0 {
		panic(fmt.Sprintf("generate: softmax sum underflowed for %d logits", len(logits)))
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
