package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Checkpoint couples a state dict with its training metadata.
type Checkpoint struct {
	State map[string]*tensor.RawTensor
	Model ModelMeta
	RunID string
	Step  int
}

// Write serializes the checkpoint to path, atomically via a temp file
// in the same directory. Tensors are laid out in sorted name order so
// identical states produce identical files.
func Write(path string, ckpt Checkpoint) error {
	if len(ckpt.State) == 0 {
		return fmt.Errorf("serialization: empty state dict")
	}
	names := make([]string, 0, len(ckpt.State))
	for name := range ckpt.State {
		names = append(names, name)
	}
	sort.Strings(names)

	var payload bytes.Buffer
	metas := make([]TensorMeta, 0, len(names))
	for _, name := range names {
		raw := ckpt.State[name]
		metas = append(metas, TensorMeta{
			Name:   name,
			DType:  dtypeName(raw.DType()),
			Shape:  raw.Shape(),
			Offset: int64(payload.Len()),
			Size:   int64(raw.ByteSize()),
		})
		payload.Write(raw.Data())
	}

	runID := ckpt.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	digest := sha256.Sum256(payload.Bytes())
	header := Header{
		FormatVersion: FormatVersion,
		RunID:         runID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Step:          ckpt.Step,
		Model:         ckpt.Model,
		PayloadSHA256: hex.EncodeToString(digest[:]),
		Tensors:       metas,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("serialization: marshal header: %w", err)
	}

	var file bytes.Buffer
	file.WriteString(Magic)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(headerJSON)))
	file.Write(lenBuf[:])
	file.Write(headerJSON)
	file.Write(payload.Bytes())

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, file.Bytes(), 0o644); err != nil {
		return fmt.Errorf("serialization: write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("serialization: finalize checkpoint: %w", err)
	}
	return nil
}
