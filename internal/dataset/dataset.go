// Package dataset cuts an encoded corpus into random training batches
// of context/next-character pairs.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Batches samples (batchSize, contextLength) input windows uniformly
// from the token stream, with targets shifted one position ahead of
// the inputs.
type Batches[B tensor.Backend] struct {
	data          []int32
	contextLength int
	batchSize     int
	rng           *rand.Rand
	backend       B
}

func New[B tensor.Backend](data []int32, contextLength, batchSize int, seed int64, backend B) (*Batches[B], error) {
	if contextLength <= 0 {
		return nil, fmt.Errorf("dataset: context length must be positive, got %d", contextLength)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be positive, got %d", batchSize)
	}
	if len(data) <= contextLength {
		return nil, fmt.Errorf("dataset: corpus of %d tokens is too short for context length %d",
			len(data), contextLength)
	}
	return &Batches[B]{
		data:          data,
		contextLength: contextLength,
		batchSize:     batchSize,
		rng:           rand.New(rand.NewSource(seed)),
		backend:       backend,
	}, nil
}

// Next returns one random batch: inputs (batchSize, contextLength) and
// the same windows shifted by one token as targets.
func (b *Batches[B]) Next() (inputs, targets *tensor.Tensor[int32, B]) {
	shape := tensor.Shape{b.batchSize, b.contextLength}
	inputs = tensor.Zeros[int32, B](shape, b.backend)
	targets = tensor.Zeros[int32, B](shape, b.backend)
	in, tgt := inputs.Data(), targets.Data()

	maxStart := len(b.data) - b.contextLength - 1
	for i := 0; i < b.batchSize; i++ {
		start := b.rng.Intn(maxStart + 1)
		copy(in[i*b.contextLength:(i+1)*b.contextLength], b.data[start:start+b.contextLength])
		copy(tgt[i*b.contextLength:(i+1)*b.contextLength], b.data[start+1:start+1+b.contextLength])
	}
	return inputs, targets
}

// NumTokens reports the corpus size.
func (b *Batches[B]) NumTokens() int { return len(b.data) }
