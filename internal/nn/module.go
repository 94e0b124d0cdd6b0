// Package nn contains the neural network layers of the glyph language
// model: linear projections, layer normalization, embeddings, causal
// self-attention and the GPT model assembled from them. Layers are
// generic over the backend, so the same model code runs with plain CPU
// execution or under the autodiff decorator for training.
package nn

import "github.com/glyph-ml/glyph/internal/tensor"

// Module is anything that owns trainable parameters.
type Module[B tensor.Backend] interface {
	Parameters() []*Parameter[B]
}
