package generate

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Model is the forward pass the generator drives. *nn.GPT satisfies
// it; tests substitute fakes.
type Model[B tensor.Backend] interface {
	Forward(indices *tensor.Tensor[int32, B], train bool) *tensor.Tensor[float32, B]
}

// Generator extends token sequences autoregressively. The full history
// grows without bound; the model only ever sees the trailing
// contextLength tokens of each sequence.
type Generator[B tensor.Backend] struct {
	model         Model[B]
	sampler       *Sampler
	contextLength int
	backend       B
}

func NewGenerator[B tensor.Backend](model Model[B], contextLength int, sampler *Sampler, backend B) *Generator[B] {
	if contextLength <= 0 {
		panic(fmt.Sprintf("generate.NewGenerator: context length must be positive, got %d", contextLength))
	}
	return &Generator[B]{
		model:         model,
		sampler:       sampler,
		contextLength: contextLength,
		backend:       backend,
	}
}

// Generate appends numNew sampled tokens to each sequence and returns
// the full histories, inputs included. All sequences must be non-empty
// and equally long so they batch into one forward pass per step.
func (g *Generator[B]) Generate(start [][]int32, numNew int) [][]int32 {
	if len(start) == 0 {
		panic("Generator.Generate: no sequences")
	}
	if numNew < 0 {
		panic(fmt.Sprintf("Generator.Generate: numNew must be non-negative, got %d", numNew))
	}
	seqLen := len(start[0])
	if seqLen == 0 {
		panic("Generator.Generate: sequences must be non-empty")
	}
	histories := make([][]int32, len(start))
	for i, seq := range start {
		if len(seq) != seqLen {
			panic(fmt.Sprintf("Generator.Generate: sequence %d has length %d, want %d",
				i, len(seq), seqLen))
		}
		histories[i] = append([]int32(nil), seq...)
	}

	for step := 0; step < numNew; step++ {
		window := len(histories[0])
		if window > g.contextLength {
			window = g.contextLength
		}
		batch := tensor.Zeros[int32, B](tensor.Shape{len(histories), window}, g.backend)
		data := batch.Data()
		for i, h := range histories {
			copy(data[i*window:(i+1)*window], h[len(h)-window:])
		}

		logits := g.model.Forward(batch, false)
		ls := logits.Shape() // (batch, window, vocab)
		vocab := ls[2]
		flat := logits.Data()
		for i := range histories {
			last := flat[(i*window+window-1)*vocab : (i*window+window)*vocab]
			histories[i] = append(histories[i], g.sampler.Sample(last))
		}
	}
	return histories
}
