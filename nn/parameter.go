// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/primer/internal/nn"
	"github.com/born-ml/primer/tensor"
)

// Parameter is a named weight or bias tensor.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//
// Methods:
//
//	Name() string
//	    Returns the parameter name (e.g., "conv2d.weight").
//
//	Tensor() *tensor.Tensor
//	    Returns the parameter tensor.
//
//	Shape() tensor.Shape
//	    Returns the tensor shape.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// Initializer draws parameter values from U[-0.5, 0.5) with a fixed seed.
type Initializer = nn.Initializer

// NewInitializer creates an initializer seeded with seed.
func NewInitializer(seed uint64) *Initializer {
	return nn.NewInitializer(seed)
}

// ConfigError reports a construction-time argument that cannot yield a
// valid parameter shape. It matches tensor.ErrInvalidConfig.
type ConfigError = nn.ConfigError
