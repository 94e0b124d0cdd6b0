// Package serialization reads and writes .glyph checkpoint files: a
// magic number, a JSON header describing the stored tensors and model
// config, then the raw float32 payload with a SHA-256 digest.
//
// Layout:
//
//	bytes 0..3   magic "GLYF"
//	bytes 4..11  header length, little-endian uint64
//	header JSON
//	tensor payload, tensors in header order
package serialization

import "github.com/glyph-ml/glyph/internal/tensor"

const (
	// Magic identifies a glyph checkpoint file.
	Magic = "GLYF"

	// FormatVersion is bumped on incompatible layout changes.
	FormatVersion = 1
)

// TensorMeta locates one tensor inside the payload.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

// ModelMeta records the architecture a checkpoint was trained with, so
// loading can rebuild an identical model.
type ModelMeta struct {
	VocabSize     int     `json:"vocab_size"`
	ContextLength int     `json:"context_length"`
	EmbedDim      int     `json:"embed_dim"`
	NumBlocks     int     `json:"num_blocks"`
	NumHeads      int     `json:"num_heads"`
	Dropout       float32 `json:"dropout"`
}

// Header is the JSON block between magic and payload.
type Header struct {
	FormatVersion int          `json:"format_version"`
	RunID         string       `json:"run_id"`
	CreatedAt     string       `json:"created_at"`
	Step          int          `json:"step,omitempty"`
	Model         ModelMeta    `json:"model"`
	PayloadSHA256 string       `json:"payload_sha256"`
	Tensors       []TensorMeta `json:"tensors"`
}

func dtypeName(dt tensor.DataType) string {
	return dt.String()
}

func dtypeFromName(name string) (tensor.DataType, bool) {
	switch name {
	case "float32":
		return tensor.Float32, true
	case "int32":
		return tensor.Int32, true
	default:
		return 0, false
	}
}
