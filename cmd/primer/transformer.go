package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/born-ml/primer/internal/nn"
	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
	"github.com/born-ml/primer/internal/tokenizer"
)

func runTransformer(args []string) error {
	fs := flag.NewFlagSet("transformer", flag.ExitOnError)
	text := fs.String("text", "the cat sat on the mat", "Input text")
	encoding := fs.String("encoding", tokenizer.DefaultEncoding, "tiktoken encoding")
	outputSize := fs.Int("out", 5, "Output width")
	layers := fs.Int("layers", 2, "Number of layers")
	heads := fs.Int("heads", 4, "Attention heads per layer")
	hidden := fs.Int("hidden", 64, "Model width")
	seed := fs.Uint64("seed", 1, "Seed for parameter initialization")
	workers := fs.Int("workers", 0, "Goroutines for attention heads (0 = sequential)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tok, err := tokenizer.NewTikToken(*encoding)
	if err != nil {
		return err
	}
	vocab, err := tokenizer.BuildVocabulary(tok, *text)
	if err != nil {
		return err
	}
	input, err := vocab.EncodeOneHot(tok, *text)
	if err != nil {
		return err
	}

	cfg := nn.TransformerConfig{
		InputSize:  vocab.Size(),
		OutputSize: *outputSize,
		NumLayers:  *layers,
		NumHeads:   *heads,
		HiddenSize: *hidden,
		Seed:       *seed,
	}
	if *workers > 0 {
		cfg.Parallel = parallel.Config{Enabled: true, NumWorkers: *workers, MinChunkSize: 1}
	}

	tr, err := nn.NewTransformer(cfg)
	if err != nil {
		return err
	}
	fmt.Println(tr)

	out, err := tr.Forward(input)
	if err != nil {
		return err
	}

	for i := 0; i < out.Dim(0); i++ {
		id := vocab.ID(tensor.Argmax(input.Row(i)))
		piece, err := tok.Decode([]int32{id})
		if err != nil {
			return err
		}
		cells := make([]string, 0, out.Dim(1))
		for _, v := range out.Row(i) {
			cells = append(cells, fmt.Sprintf("%8.4f", v))
		}
		fmt.Printf("%-12q %s\n", piece, strings.Join(cells, " "))
	}
	return nil
}
