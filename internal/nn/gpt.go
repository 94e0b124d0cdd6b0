package nn

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Config fixes the GPT architecture. DefaultConfig fills the
// conventional regularization settings; the caller supplies the sizes.
type Config struct {
	VocabSize     int
	ContextLength int
	EmbedDim      int
	NumBlocks     int
	NumHeads      int
	Dropout       float32
	Eps           float32
}

// DefaultConfig returns a Config with the standard dropout and
// normalization epsilon.
func DefaultConfig(vocabSize, contextLength, embedDim, numBlocks, numHeads int) Config {
	return Config{
		VocabSize:     vocabSize,
		ContextLength: contextLength,
		EmbedDim:      embedDim,
		NumBlocks:     numBlocks,
		NumHeads:      numHeads,
		Dropout:       0.2,
		Eps:           1e-5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.VocabSize <= 0:
		return fmt.Errorf("nn: vocab size must be positive, got %d", c.VocabSize)
	case c.ContextLength <= 0:
		return fmt.Errorf("nn: context length must be positive, got %d", c.ContextLength)
	case c.EmbedDim <= 0:
		return fmt.Errorf("nn: embed dim must be positive, got %d", c.EmbedDim)
	case c.NumBlocks <= 0:
		return fmt.Errorf("nn: num blocks must be positive, got %d", c.NumBlocks)
	case c.NumHeads <= 0:
		return fmt.Errorf("nn: num heads must be positive, got %d", c.NumHeads)
	case c.EmbedDim%c.NumHeads != 0:
		return fmt.Errorf("nn: embed dim %d not divisible by num heads %d", c.EmbedDim, c.NumHeads)
	case c.Dropout < 0 || c.Dropout >= 1:
		return fmt.Errorf("nn: dropout must be in [0, 1), got %g", c.Dropout)
	case c.Eps <= 0:
		return fmt.Errorf("nn: eps must be positive, got %g", c.Eps)
	}
	return nil
}

// HeadSize is the per-head projection width.
func (c Config) HeadSize() int { return c.EmbedDim / c.NumHeads }

// GPT is a decoder-only character language model: token plus position
// embeddings, a stack of pre-norm transformer blocks, a final layer
// norm and a linear head producing next-token logits.
type GPT[B tensor.Backend] struct {
	Config Config

	TokEmbed  *Embedding[B]
	PosEmbed  *Embedding[B]
	Blocks    []*TransformerBlock[B]
	FinalNorm *LayerNorm[B]
	LMHead    *Linear[B]

	backend B
}

// NewGPT validates the config and initializes all parameters from rng.
func NewGPT[B tensor.Backend](cfg Config, rng *rand.Rand, backend B) (*GPT[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	blocks := make([]*TransformerBlock[B], cfg.NumBlocks)
	for i := range blocks {
		blocks[i] = NewTransformerBlock(fmt.Sprintf("blocks.%d", i),
			cfg.EmbedDim, cfg.NumHeads, cfg.Dropout, cfg.Eps, rng, backend)
	}
	return &GPT[B]{
		Config:    cfg,
		TokEmbed:  NewEmbedding("tok_embed", cfg.VocabSize, cfg.EmbedDim, rng, backend),
		PosEmbed:  NewEmbedding("pos_embed", cfg.ContextLength, cfg.EmbedDim, rng, backend),
		Blocks:    blocks,
		FinalNorm: NewLayerNorm[B]("final_norm", cfg.EmbedDim, cfg.Eps, backend),
		LMHead:    NewLinear("lm_head", cfg.EmbedDim, cfg.VocabSize, rng, backend),
		backend:   backend,
	}, nil
}

// Forward maps (batch, time) token indices to (batch, time, vocab)
// logits. Panics when the input is not 2D, exceeds the context length
// or holds an out-of-vocabulary index.
func (g *GPT[B]) Forward(indices *tensor.Tensor[int32, B], train bool) *tensor.Tensor[float32, B] {
	shape := indices.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("GPT.Forward: want input (batch, time), got %v", shape))
	}
	batch, seq := shape[0], shape[1]
	if seq > g.Config.ContextLength {
		panic(fmt.Sprintf("GPT.Forward: sequence length %d exceeds context length %d",
			seq, g.Config.ContextLength))
	}

	tok := g.TokEmbed.Forward(indices)                           // (batch, time, dim)
	pos := g.PosEmbed.Forward(tensor.Arange(seq, g.backend))     // (time, dim)
	x := tok.Add(pos)

	for _, block := range g.Blocks {
		x = block.Forward(x, train)
	}
	x = g.FinalNorm.Forward(x)

	flat := x.Reshape(tensor.Shape{batch * seq, g.Config.EmbedDim})
	logits := g.LMHead.Forward(flat)
	return logits.Reshape(tensor.Shape{batch, seq, g.Config.VocabSize})
}

func (g *GPT[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, g.TokEmbed.Parameters()...)
	params = append(params, g.PosEmbed.Parameters()...)
	for _, block := range g.Blocks {
		params = append(params, block.Parameters()...)
	}
	params = append(params, g.FinalNorm.Parameters()...)
	params = append(params, g.LMHead.Parameters()...)
	return params
}

// StateDict returns the raw parameter tensors keyed by name. The raws
// are live views, not copies.
func (g *GPT[B]) StateDict() map[string]*tensor.RawTensor {
	dict := make(map[string]*tensor.RawTensor)
	for _, p := range g.Parameters() {
		dict[p.Name()] = p.Tensor().Raw()
	}
	return dict
}

// LoadStateDict copies values into the existing parameters. Every
// parameter must be present with a matching shape; unknown names are
// an error.
func (g *GPT[B]) LoadStateDict(dict map[string]*tensor.RawTensor) error {
	params := make(map[string]*Parameter[B])
	for _, p := range g.Parameters() {
		params[p.Name()] = p
	}
	if len(dict) != len(params) {
		for name := range dict {
			if _, ok := params[name]; !ok {
				return fmt.Errorf("nn: state dict has unknown parameter %q", name)
			}
		}
	}
	for name, p := range params {
		raw, ok := dict[name]
		if !ok {
			return fmt.Errorf("nn: state dict missing parameter %q", name)
		}
		dst := p.Tensor().Raw()
		if !raw.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("nn: parameter %q shape %v does not match model shape %v",
				name, raw.Shape(), dst.Shape())
		}
		if raw.DType() != dst.DType() {
			return fmt.Errorf("nn: parameter %q dtype %s does not match model dtype %s",
				name, raw.DType(), dst.DType())
		}
		copy(dst.Data(), raw.Data())
	}
	return nil
}
