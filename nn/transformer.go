// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/primer/internal/nn"
	"github.com/born-ml/primer/tensor"
)

// ScaledDotProductAttention computes softmax(Q K^T * scale) V and returns
// the output with its attention weights. A zero scale means 1/sqrt(d_k).
func ScaledDotProductAttention(query, key, value *tensor.Tensor, scale float64) (*tensor.Tensor, *tensor.Tensor, error) {
	return nn.ScaledDotProductAttention(query, key, value, scale)
}

// SelfAttention is multi-head self-attention without an output projection.
type SelfAttention = nn.SelfAttention

// NewSelfAttention creates an attention module. hidden must be divisible by numHeads.
func NewSelfAttention(hidden, numHeads int, init *Initializer) (*SelfAttention, error) {
	return nn.NewSelfAttention(hidden, numHeads, init)
}

// FeedForward computes ReLU(x W1) W2 per row.
type FeedForward = nn.FeedForward

// NewFeedForward creates a feed-forward sublayer.
func NewFeedForward(embedDim, ffnDim int, init *Initializer) (*FeedForward, error) {
	return nn.NewFeedForward(embedDim, ffnDim, init)
}

// TransformerConfig fixes every shape used by a Transformer.
//
// Example:
//
//	config := nn.TransformerConfig{
//	    InputSize:  10,
//	    OutputSize: 5,
//	    NumLayers:  2,
//	    NumHeads:   4,
//	    HiddenSize: 64,
//	    Seed:       1,
//	}
type TransformerConfig = nn.TransformerConfig

// DefaultTransformerConfig returns 2 layers, 4 heads and hidden size 64.
func DefaultTransformerConfig(inputSize, outputSize int) TransformerConfig {
	return nn.DefaultTransformerConfig(inputSize, outputSize)
}

// TransformerLayer is one attention+FFN layer with residual adds.
//
// Architecture:
//
//	x → Attention → + → FFN → + → output
//	|_______________↑  |_______↑
type TransformerLayer = nn.TransformerLayer

// NewTransformerLayer creates a layer with seeded uniform parameters.
func NewTransformerLayer(hidden, numHeads int, init *Initializer) (*TransformerLayer, error) {
	return nn.NewTransformerLayer(hidden, numHeads, init)
}

// Transformer maps one-hot token rows [seq, input] to [seq, output].
type Transformer = nn.Transformer

// NewTransformer builds a Transformer with seeded uniform parameters.
func NewTransformer(cfg TransformerConfig) (*Transformer, error) {
	return nn.NewTransformer(cfg)
}
