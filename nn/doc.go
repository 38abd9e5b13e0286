// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the inference-only models of primer and the layers
// they are built from.
//
// # Overview
//
// This package contains:
//   - Models: ConvNet, LSTMCell, Transformer
//   - Layers: Conv2D, MaxPool2D, Dense, SelfAttention, FeedForward
//   - Utilities: Module, Sequential, Parameter, Initializer
//
// Every parameter is drawn from U[-0.5, 0.5) by a seeded Initializer, so
// two models built from the same config are identical. There is no
// training.
//
// # Basic Usage
//
//	import "github.com/born-ml/primer/nn"
//
//	func main() {
//	    net, err := nn.NewConvNet(nn.DefaultConvNetConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    probs, err := net.Forward(image) // [1,28,28] -> [10]
//	}
//
// # Models
//
// ConvNet: conv -> pool -> conv -> pool -> flatten -> dense -> softmax
//
//	net, err := nn.NewConvNet(nn.DefaultConvNetConfig())
//
// LSTMCell: stateful single-step recurrent cell
//
//	cell := nn.NewDefaultLSTMCell()
//	y, err := cell.StepScalar(0.5)
//
// Transformer: embedding, attention+FFN layers with residual adds, output projection
//
//	tr, err := nn.NewTransformer(nn.DefaultTransformerConfig(vocabSize, outSize))
//	out, err := tr.Forward(oneHot) // [seq, vocabSize] -> [seq, outSize]
//
// # Errors
//
// Construction failures match tensor.ErrInvalidConfig and are reported as
// *ConfigError. Inputs of the wrong shape match tensor.ErrShapeMismatch.
package nn
