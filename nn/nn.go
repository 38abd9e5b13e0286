// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/primer/internal/nn"
	"github.com/born-ml/primer/tensor"
)

// Layers

// Conv2D is a 2D convolutional layer with a fused ReLU (stride 1, no padding).
type Conv2D = nn.Conv2D

// NewConv2D creates a convolution layer with a square kernel.
//
// Example:
//
//	conv, err := nn.NewConv2D(1, 8, 3, nn.NewInitializer(1)) // [1,28,28] -> [8,26,26]
func NewConv2D(inChannels, outChannels, kernelSize int, init *Initializer) (*Conv2D, error) {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, init)
}

// NewConv2DFromParams creates a convolution layer from a
// [out_channels, in_channels, kernel_h, kernel_w] weight and an [out_channels] bias.
func NewConv2DFromParams(weight, bias *tensor.Tensor) (*Conv2D, error) {
	return nn.NewConv2DFromParams(weight, bias)
}

// MaxPool2D is a non-overlapping 2D max pooling layer.
type MaxPool2D = nn.MaxPool2D

// NewMaxPool2D creates a max pooling layer.
func NewMaxPool2D(poolSize int) (*MaxPool2D, error) {
	return nn.NewMaxPool2D(poolSize)
}

// Flatten returns a 1-D copy of input.
func Flatten(input *tensor.Tensor) *tensor.Tensor {
	return nn.Flatten(input)
}

// Dense is a fully connected layer with a fused ReLU.
type Dense = nn.Dense

// NewDense creates a Dense layer.
func NewDense(inFeatures, outFeatures int, init *Initializer) (*Dense, error) {
	return nn.NewDense(inFeatures, outFeatures, init)
}

// NewDenseFromParams creates a Dense layer from an [out, in] weight and an [out] bias.
func NewDenseFromParams(weight, bias *tensor.Tensor) (*Dense, error) {
	return nn.NewDenseFromParams(weight, bias)
}

// ConvNet

// ConvNetConfig fixes every shape used by a ConvNet.
type ConvNetConfig = nn.ConvNetConfig

// DefaultConvNetConfig returns the MNIST-sized configuration.
func DefaultConvNetConfig() ConvNetConfig {
	return nn.DefaultConvNetConfig()
}

// ConvNet classifies [C,H,W] images with two conv+pool stages and a dense layer.
type ConvNet = nn.ConvNet

// NewConvNet builds a ConvNet with seeded uniform parameters.
func NewConvNet(cfg ConvNetConfig) (*ConvNet, error) {
	return nn.NewConvNet(cfg)
}

// NewConvNetFromLayers assembles a ConvNet from explicit layers.
func NewConvNetFromLayers(cfg ConvNetConfig, conv1, conv2 *Conv2D, fc *Dense) (*ConvNet, error) {
	return nn.NewConvNetFromLayers(cfg, conv1, conv2, fc)
}

// LSTM

// LSTMWeights holds the gate parameters of an LSTMCell.
type LSTMWeights = nn.LSTMWeights

// DefaultLSTMWeights returns the preconfigured weights (input size 1, hidden size 2).
func DefaultLSTMWeights() LSTMWeights {
	return nn.DefaultLSTMWeights()
}

// LSTMConfig sizes a randomly initialized LSTMCell.
type LSTMConfig = nn.LSTMConfig

// LSTMCell is a single-step gated memory cell. It is not safe for concurrent use.
type LSTMCell = nn.LSTMCell

// NewLSTMCell creates a cell with seeded uniform weights.
func NewLSTMCell(cfg LSTMConfig) (*LSTMCell, error) {
	return nn.NewLSTMCell(cfg)
}

// NewLSTMCellWithWeights creates a cell from explicit weights.
func NewLSTMCellWithWeights(w LSTMWeights) (*LSTMCell, error) {
	return nn.NewLSTMCellWithWeights(w)
}

// NewDefaultLSTMCell creates a cell with DefaultLSTMWeights.
func NewDefaultLSTMCell() *LSTMCell {
	return nn.NewDefaultLSTMCell()
}
