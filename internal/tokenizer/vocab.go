package tokenizer

import (
	"errors"
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// ErrUnknownToken is returned when a token ID is not in the vocabulary.
var ErrUnknownToken = errors.New("unknown token")

// Vocabulary assigns each distinct token ID a dense index in [0, Size()),
// in first-seen order.
//
// A Vocabulary is immutable after construction and safe for concurrent use.
type Vocabulary struct {
	index map[int32]int
	ids   []int32
}

// NewVocabulary creates a vocabulary from token IDs. Repeated IDs keep
// their first index.
func NewVocabulary(ids []int32) (*Vocabulary, error) {
	v := &Vocabulary{index: make(map[int32]int, len(ids))}
	for _, id := range ids {
		if _, ok := v.index[id]; ok {
			continue
		}
		v.index[id] = len(v.ids)
		v.ids = append(v.ids, id)
	}
	if len(v.ids) == 0 {
		return nil, fmt.Errorf("vocabulary: %w: no tokens", tensor.ErrInvalidConfig)
	}
	return v, nil
}

// BuildVocabulary encodes every text in corpus and collects their tokens.
func BuildVocabulary(enc Encoder, corpus ...string) (*Vocabulary, error) {
	var ids []int32
	for i, text := range corpus {
		tokens, err := enc.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("vocabulary: encode text %d: %w", i, err)
		}
		ids = append(ids, tokens...)
	}
	return NewVocabulary(ids)
}

// Size returns the number of distinct tokens.
func (v *Vocabulary) Size() int {
	return len(v.ids)
}

// Index returns the dense index of id.
func (v *Vocabulary) Index(id int32) (int, bool) {
	i, ok := v.index[id]
	return i, ok
}

// ID returns the token ID at dense index i.
func (v *Vocabulary) ID(i int) int32 {
	return v.ids[i]
}

// OneHot builds a [len(ids), Size()] matrix whose row r has a single 1 at
// the index of ids[r].
func (v *Vocabulary) OneHot(ids []int32) (*tensor.Tensor, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("one-hot: %w: empty sequence", tensor.ErrInvalidConfig)
	}

	out := tensor.Zeros(tensor.Shape{len(ids), v.Size()})
	for r, id := range ids {
		i, ok := v.index[id]
		if !ok {
			return nil, fmt.Errorf("one-hot: %w: id %d at position %d", ErrUnknownToken, id, r)
		}
		out.Set(1, r, i)
	}
	return out, nil
}

// EncodeOneHot encodes text with enc and returns its one-hot matrix.
func (v *Vocabulary) EncodeOneHot(enc Encoder, text string) (*tensor.Tensor, error) {
	ids, err := enc.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("one-hot: %w", err)
	}
	return v.OneHot(ids)
}

// Decode maps each row of a [seq, Size()] score matrix to the token with
// the highest score and decodes the result with enc.
func (v *Vocabulary) Decode(enc Encoder, scores *tensor.Tensor) (string, error) {
	if scores.Rank() != 2 || scores.Dim(1) != v.Size() {
		return "", &tensor.ShapeError{Op: "vocabulary", Got: scores.Shape(),
			Details: fmt.Sprintf("expected [seq, %d]", v.Size())}
	}

	ids := make([]int32, scores.Dim(0))
	for r := range ids {
		ids[r] = v.ids[tensor.Argmax(scores.Row(r))]
	}
	return enc.Decode(ids)
}
