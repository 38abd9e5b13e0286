package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/primer/internal/tensor"
)

// wordEncoder assigns IDs to whitespace-separated words on first sight.
type wordEncoder struct {
	ids   map[string]int32
	words []string
}

func newWordEncoder() *wordEncoder {
	return &wordEncoder{ids: make(map[string]int32)}
}

func (e *wordEncoder) Encode(text string) ([]int32, error) {
	var out []int32
	for _, w := range strings.Fields(text) {
		id, ok := e.ids[w]
		if !ok {
			// Offset so IDs differ from dense indices.
			id = int32(100 + len(e.words))
			e.ids[w] = id
			e.words = append(e.words, w)
		}
		out = append(out, id)
	}
	return out, nil
}

func (e *wordEncoder) Decode(tokens []int32) (string, error) {
	words := make([]string, len(tokens))
	for i, id := range tokens {
		words[i] = e.words[id-100]
	}
	return strings.Join(words, " "), nil
}

type failingEncoder struct{}

func (failingEncoder) Encode(string) ([]int32, error) { return nil, errors.New("boom") }
func (failingEncoder) Decode([]int32) (string, error) { return "", nil }

func TestNewVocabulary(t *testing.T) {
	v, err := NewVocabulary([]int32{42, 7, 42, 9, 7})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Size())

	for i, id := range []int32{42, 7, 9} {
		idx, ok := v.Index(id)
		require.True(t, ok)
		assert.Equal(t, i, idx)
		assert.Equal(t, id, v.ID(i))
	}

	_, ok := v.Index(1)
	assert.False(t, ok)

	_, err = NewVocabulary(nil)
	assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))
}

func TestVocabulary_OneHot(t *testing.T) {
	v, err := NewVocabulary([]int32{42, 7, 9})
	require.NoError(t, err)

	x, err := v.OneHot([]int32{9, 42, 9})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3}, x.Shape())
	assert.Equal(t, []float64{
		0, 0, 1,
		1, 0, 0,
		0, 0, 1,
	}, x.Data())

	_, err = v.OneHot([]int32{9, 5})
	assert.True(t, errors.Is(err, ErrUnknownToken))

	_, err = v.OneHot(nil)
	assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))
}

func TestVocabulary_EncodeDecode(t *testing.T) {
	enc := newWordEncoder()
	v, err := BuildVocabulary(enc, "the cat sat", "on the mat")
	require.NoError(t, err)
	assert.Equal(t, 5, v.Size())

	x, err := v.EncodeOneHot(enc, "mat the cat")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 5}, x.Shape())

	text, err := v.Decode(enc, x)
	require.NoError(t, err)
	assert.Equal(t, "mat the cat", text)

	_, err = v.Decode(enc, tensor.Zeros(tensor.Shape{2, 4}))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = v.EncodeOneHot(enc, "dog")
	assert.True(t, errors.Is(err, ErrUnknownToken))
}

func TestBuildVocabulary_EncoderError(t *testing.T) {
	_, err := BuildVocabulary(failingEncoder{}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	v, err := NewVocabulary([]int32{1})
	require.NoError(t, err)
	_, err = v.EncodeOneHot(failingEncoder{}, "x")
	assert.Error(t, err)
}
