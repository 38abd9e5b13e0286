package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
)

// TransformerConfig fixes every shape used by a Transformer.
type TransformerConfig struct {
	InputSize  int // Width of each input token row (e.g., one-hot vocabulary size)
	OutputSize int // Width of each output row
	NumLayers  int // Number of attention+FFN layers
	NumHeads   int // Attention heads per layer; must divide HiddenSize
	HiddenSize int // Model width

	Seed     uint64          // Seed for uniform parameter initialization
	Parallel parallel.Config // Fan-out of attention heads
}

// DefaultTransformerConfig returns the default configuration for the
// given input and output widths: 2 layers, 4 heads, hidden size 64.
func DefaultTransformerConfig(inputSize, outputSize int) TransformerConfig {
	return TransformerConfig{
		InputSize:  inputSize,
		OutputSize: outputSize,
		NumLayers:  2,
		NumHeads:   4,
		HiddenSize: 64,
		Seed:       1,
	}
}

// Validate checks that the configuration yields valid parameter shapes.
func (c TransformerConfig) Validate() error {
	err := requirePositive("transformer",
		field{"input_size", c.InputSize},
		field{"output_size", c.OutputSize},
		field{"num_layers", c.NumLayers},
	)
	if err != nil {
		return err
	}
	return validateHeads(c.HiddenSize, c.NumHeads)
}

// TransformerLayer is one encoder layer with residual adds and no normalization:
//
//	x = x + SelfAttention(x)
//	x = x + FeedForward(x)
type TransformerLayer struct {
	Attention *SelfAttention
	FFN       *FeedForward
}

// NewTransformerLayer creates a layer with uniformly initialized parameters.
func NewTransformerLayer(hidden, numHeads int, init *Initializer) (*TransformerLayer, error) {
	attn, err := NewSelfAttention(hidden, numHeads, init)
	if err != nil {
		return nil, err
	}
	ffn, err := NewFeedForward(hidden, hidden, init)
	if err != nil {
		return nil, err
	}
	return &TransformerLayer{Attention: attn, FFN: ffn}, nil
}

// Forward applies the layer to x [seq, hidden].
func (l *TransformerLayer) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	attnOut, err := l.Attention.Forward(x)
	if err != nil {
		return nil, err
	}
	x, err = tensor.Add(x, attnOut)
	if err != nil {
		return nil, err
	}

	ffnOut, err := l.FFN.Forward(x)
	if err != nil {
		return nil, err
	}
	return tensor.Add(x, ffnOut)
}

// Parameters returns the attention and feed-forward parameters.
func (l *TransformerLayer) Parameters() []*Parameter {
	return append(l.Attention.Parameters(), l.FFN.Parameters()...)
}

// Transformer is a stack of identical encoder layers between an input
// embedding and an output projection:
//
//	embed(input) -> [attention + FFN] x num_layers -> output projection
//
// Each layer has its own parameters.
//
// Example:
//
//	tr, err := nn.NewTransformer(nn.DefaultTransformerConfig(10, 5))
//	out, err := tr.Forward(oneHot) // [3,10] -> [3,5]
type Transformer struct {
	cfg       TransformerConfig
	embedding *Parameter // [input_size, hidden]
	layers    []*TransformerLayer
	output    *Parameter // [hidden, output_size]
}

// NewTransformer builds a Transformer with uniformly initialized parameters.
func NewTransformer(cfg TransformerConfig) (*Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	init := NewInitializer(cfg.Seed)
	embedding := init.Parameter("embedding", tensor.Shape{cfg.InputSize, cfg.HiddenSize})

	layers := make([]*TransformerLayer, cfg.NumLayers)
	for i := range layers {
		layer, err := NewTransformerLayer(cfg.HiddenSize, cfg.NumHeads, init)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = layer
	}

	output := init.Parameter("output", tensor.Shape{cfg.HiddenSize, cfg.OutputSize})

	return NewTransformerFromLayers(cfg, embedding.Tensor(), layers, output.Tensor())
}

// NewTransformerFromLayers assembles a Transformer from explicit parts.
// The config's sizes are taken from the tensors and layers. The embedding
// and output tensors are copied; layers are used as given and must all
// share one head count.
func NewTransformerFromLayers(cfg TransformerConfig, embedding *tensor.Tensor, layers []*TransformerLayer, output *tensor.Tensor) (*Transformer, error) {
	if embedding == nil || output == nil {
		return nil, fmt.Errorf("transformer: %w: embedding and output projection are required", tensor.ErrInvalidConfig)
	}
	es, outShape := embedding.Shape(), output.Shape()
	if len(es) != 2 {
		return nil, &tensor.ShapeError{Op: "transformer", Got: es, Details: "embedding must be 2D [input_size, hidden]"}
	}
	if len(outShape) != 2 || outShape[0] != es[1] {
		return nil, &tensor.ShapeError{Op: "transformer", Got: outShape, Details: fmt.Sprintf("output projection must be [%d, output_size]", es[1])}
	}
	if len(layers) == 0 {
		return nil, &ConfigError{Component: "transformer", Field: "num_layers", Value: 0, Reason: "must be > 0"}
	}

	numHeads := 0
	for i, l := range layers {
		if l == nil || l.Attention == nil || l.FFN == nil {
			return nil, &ConfigError{Component: "transformer", Field: fmt.Sprintf("layers[%d]", i),
				Reason: "layer, attention and feed-forward are required"}
		}
		if l.Attention.Hidden != es[1] {
			return nil, &tensor.ShapeError{Op: "transformer", Got: tensor.Shape{l.Attention.Hidden},
				Want: tensor.Shape{es[1]}, Details: fmt.Sprintf("layer %d hidden size", i)}
		}
		if w1 := l.FFN.W1.Shape(); w1[0] != es[1] {
			return nil, &tensor.ShapeError{Op: "transformer", Got: w1, Details: fmt.Sprintf("layer %d ffn input size", i)}
		}
		if i == 0 {
			numHeads = l.Attention.NumHeads
		} else if l.Attention.NumHeads != numHeads {
			return nil, &ConfigError{Component: "transformer", Field: "num_heads", Value: l.Attention.NumHeads,
				Reason: fmt.Sprintf("layer %d disagrees with layer 0 (%d heads)", i, numHeads)}
		}
	}
	for _, l := range layers {
		l.Attention.SetParallel(cfg.Parallel)
	}

	cfg.InputSize, cfg.HiddenSize = es[0], es[1]
	cfg.OutputSize = outShape[1]
	cfg.NumLayers = len(layers)
	cfg.NumHeads = numHeads

	return &Transformer{
		cfg:       cfg,
		embedding: NewParameter("embedding", embedding.Clone()),
		layers:    append([]*TransformerLayer(nil), layers...),
		output:    NewParameter("output", output.Clone()),
	}, nil
}

// Embed projects token rows [seq, input_size] into the model width.
func (t *Transformer) Embed(input *tensor.Tensor) (*tensor.Tensor, error) {
	if input.Rank() != 2 || input.Dim(1) != t.cfg.InputSize {
		return nil, &tensor.ShapeError{Op: "transformer", Got: input.Shape(),
			Details: fmt.Sprintf("expected [seq, %d]", t.cfg.InputSize)}
	}
	return Project(input, t.embedding.Tensor())
}

// Forward maps token rows [seq, input_size] to [seq, output_size].
func (t *Transformer) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := t.Embed(input)
	if err != nil {
		return nil, err
	}

	for i, layer := range t.layers {
		x, err = layer.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("transformer: layer %d: %w", i, err)
		}
	}

	return Project(x, t.output.Tensor())
}

// Config returns the configuration the model was built with.
func (t *Transformer) Config() TransformerConfig {
	return t.cfg
}

// Layers returns the encoder layers.
func (t *Transformer) Layers() []*TransformerLayer {
	return t.layers
}

// Parameters returns all parameters: embedding, layers in order, output.
func (t *Transformer) Parameters() []*Parameter {
	params := []*Parameter{t.embedding}
	for _, l := range t.layers {
		params = append(params, l.Parameters()...)
	}
	return append(params, t.output)
}

// String returns a string representation of the model.
func (t *Transformer) String() string {
	return fmt.Sprintf("Transformer(input=%d, hidden=%d, heads=%d, layers=%d, output=%d)",
		t.cfg.InputSize, t.cfg.HiddenSize, t.cfg.NumHeads, t.cfg.NumLayers, t.cfg.OutputSize)
}
