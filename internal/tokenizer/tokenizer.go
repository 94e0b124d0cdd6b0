// Package tokenizer implements the character-level vocabulary used by
// glyph: every distinct rune of the training corpus becomes one token.
package tokenizer

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// Tokenizer converts between text and token indices.
type Tokenizer interface {
	Encode(text string) []int32
	Decode(ids []int32) (string, error)
	VocabSize() int
}

// Alphabet is a closed character vocabulary: the sorted distinct runes
// of a corpus, indexed by position. Characters outside the alphabet
// are silently dropped on encode.
type Alphabet struct {
	runes []rune
	index map[rune]int32
}

// Build collects the distinct runes of text into a sorted alphabet.
func Build(text string) (*Alphabet, error) {
	seen := make(map[rune]struct{})
	for _, r := range text {
		seen[r] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("tokenizer: empty corpus")
	}
	runes := make([]rune, 0, len(seen))
	for r := range seen {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return fromRunes(runes), nil
}

func fromRunes(runes []rune) *Alphabet {
	index := make(map[rune]int32, len(runes))
	for i, r := range runes {
		index[r] = int32(i)
	}
	return &Alphabet{runes: runes, index: index}
}

func (a *Alphabet) VocabSize() int { return len(a.runes) }

// Encode maps each rune to its index, dropping unknowns.
func (a *Alphabet) Encode(text string) []int32 {
	ids := make([]int32, 0, len(text))
	for _, r := range text {
		if id, ok := a.index[r]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Decode maps indices back to text. An index outside the alphabet is
// an error, since it means the ids came from a different vocabulary.
func (a *Alphabet) Decode(ids []int32) (string, error) {
	out := make([]rune, len(ids))
	for i, id := range ids {
		if id < 0 || int(id) >= len(a.runes) {
			return "", fmt.Errorf("tokenizer: id %d out of range [0, %d)", id, len(a.runes))
		}
		out[i] = a.runes[id]
	}
	return string(out), nil
}

// vocabFile is the JSON layout of a saved alphabet. Runes are stored
// as strings so the file stays readable.
type vocabFile struct {
	Version int      `json:"version"`
	Chars   []string `json:"chars"`
}

// Save writes the alphabet as JSON.
func (a *Alphabet) Save(path string) error {
	chars := make([]string, len(a.runes))
	for i, r := range a.runes {
		chars[i] = string(r)
	}
	data, err := json.MarshalIndent(vocabFile{Version: 1, Chars: chars}, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenizer: marshal vocab: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tokenizer: write vocab: %w", err)
	}
	return nil
}

// Load reads an alphabet saved by Save.
func Load(path string) (*Alphabet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: read vocab: %w", err)
	}
	var file vocabFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("tokenizer: parse vocab: %w", err)
	}
	if len(file.Chars) == 0 {
		return nil, fmt.Errorf("tokenizer: vocab file %s has no characters", path)
	}
	runes := make([]rune, len(file.Chars))
	for i, s := range file.Chars {
		rs := []rune(s)
		if len(rs) != 1 {
			return nil, fmt.Errorf("tokenizer: vocab entry %d is not a single character: %q", i, s)
		}
		runes[i] = rs[0]
	}
	return fromRunes(runes), nil
}

var _ Tokenizer = (*Alphabet)(nil)
