// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/primer/internal/nn"
)

// Module is a stateless forward transform.
//
// Modules can be composed:
//
//	features := nn.NewSequential(conv1, pool, conv2, pool)
type Module = nn.Module

// Sequential applies modules in order, feeding each output to the next.
type Sequential = nn.Sequential

// NewSequential creates a pipeline of modules.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc = nn.ModuleFunc
