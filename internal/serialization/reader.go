package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Read loads a checkpoint written by Write, verifying the magic,
// format version and payload digest.
func Read(path string) (Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("serialization: read checkpoint: %w", err)
	}
	if len(data) < len(Magic)+8 || string(data[:len(Magic)]) != Magic {
		return Checkpoint{}, fmt.Errorf("serialization: %s is not a glyph checkpoint", path)
	}
	headerLen := binary.LittleEndian.Uint64(data[len(Magic) : len(Magic)+8])
	headerStart := len(Magic) + 8
	if uint64(len(data)-headerStart) < headerLen {
		return Checkpoint{}, fmt.Errorf("serialization: truncated header in %s", path)
	}

	var header Header
	if err := json.Unmarshal(data[headerStart:headerStart+int(headerLen)], &header); err != nil {
		return Checkpoint{}, fmt.Errorf("serialization: parse header: %w", err)
	}
	if header.FormatVersion != FormatVersion {
		return Checkpoint{}, fmt.Errorf("serialization: unsupported format version %d (want %d)",
			header.FormatVersion, FormatVersion)
	}

	payload := data[headerStart+int(headerLen):]
	digest := sha256.Sum256(payload)
	if hex.EncodeToString(digest[:]) != header.PayloadSHA256 {
		return Checkpoint{}, fmt.Errorf("serialization: payload digest mismatch in %s", path)
	}

	state := make(map[string]*tensor.RawTensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		dt, ok := dtypeFromName(meta.DType)
		if !ok {
			return Checkpoint{}, fmt.Errorf("serialization: tensor %q has unknown dtype %q",
				meta.Name, meta.DType)
		}
		end := meta.Offset + meta.Size
		if meta.Offset < 0 || end > int64(len(payload)) {
			return Checkpoint{}, fmt.Errorf("serialization: tensor %q extends past payload", meta.Name)
		}
		raw, err := tensor.NewRaw(meta.Shape, dt)
		if err != nil {
			return Checkpoint{}, fmt.Errorf("serialization: tensor %q: %w", meta.Name, err)
		}
		if int64(raw.ByteSize()) != meta.Size {
			return Checkpoint{}, fmt.Errorf("serialization: tensor %q size %d does not match shape %v",
				meta.Name, meta.Size, meta.Shape)
		}
		copy(raw.Data(), payload[meta.Offset:end])
		state[meta.Name] = raw
	}
	return Checkpoint{
		State: state,
		Model: header.Model,
		RunID: header.RunID,
		Step:  header.Step,
	}, nil
}
