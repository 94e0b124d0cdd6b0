package nn

import (
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// TransformerBlock is one pre-norm decoder block: each sublayer sees a
// normalized input and its output is added to the residual stream, so
// the stream itself is never normalized in place.
//
//	x = x + attn(norm1(x))
//	x = x + ffn(norm2(x))
type TransformerBlock[B tensor.Backend] struct {
	Norm1 *LayerNorm[B]
	Attn  *MultiHeadAttention[B]
	Norm2 *LayerNorm[B]
	FFN   *FeedForward[B]
}

func NewTransformerBlock[B tensor.Backend](name string, embedDim, numHeads int, dropout, eps float32, rng *rand.Rand, backend B) *TransformerBlock[B] {
	return &TransformerBlock[B]{
		Norm1: NewLayerNorm[B](name+".norm1", embedDim, eps, backend),
		Attn:  NewMultiHeadAttention(name+".attn", embedDim, numHeads, dropout, rng, backend),
		Norm2: NewLayerNorm[B](name+".norm2", embedDim, eps, backend),
		FFN:   NewFeedForward(name+".ffn", embedDim, dropout, rng, backend),
	}
}

// Forward maps (batch, time, embedDim) to the same shape.
func (b *TransformerBlock[B]) Forward(x *tensor.Tensor[float32, B], train bool) *tensor.Tensor[float32, B] {
	x = x.Add(b.Attn.Forward(b.Norm1.Forward(x), train))
	x = x.Add(b.FFN.Forward(b.Norm2.Forward(x), train))
	return x
}

func (b *TransformerBlock[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, b.Norm1.Parameters()...)
	params = append(params, b.Attn.Parameters()...)
	params = append(params, b.Norm2.Parameters()...)
	params = append(params, b.FFN.Parameters()...)
	return params
}
