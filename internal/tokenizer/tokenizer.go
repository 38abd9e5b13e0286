// Package tokenizer turns text into the one-hot token matrices consumed by
// the transformer.
//
// Text is split into token IDs by an Encoder (TikToken wraps the BPE
// encodings used by GPT-3/GPT-4), and a Vocabulary maps those IDs onto a
// small dense index space so each token becomes one row of a one-hot matrix.
//
// Example usage:
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vocab, err := tokenizer.BuildVocabulary(tok, "the cat sat on the mat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	x, err := vocab.EncodeOneHot(tok, "the mat") // [seq, vocab.Size()]
package tokenizer

// Encoder converts between text and token IDs.
type Encoder interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)
}
