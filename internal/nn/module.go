package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// Module is a stateless forward transform.
//
// Conv2D, MaxPool2D, Dense, TransformerLayer, ConvNet and Transformer all
// implement it. LSTMCell does not: its Step mutates internal state.
type Module interface {
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)
}

// Sequential applies modules in order, feeding each output to the next.
type Sequential struct {
	modules []Module
}

// NewSequential creates a pipeline of modules.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward runs every module in order. The first failure stops the pipeline
// and is reported with the index and type of the failing stage.
func (s *Sequential) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	x := input
	for i, m := range s.modules {
		out, err := m.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%T): %w", i, m, err)
		}
		x = out
	}
	return x, nil
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(input *tensor.Tensor) (*tensor.Tensor, error)

// Forward calls f(input).
func (f ModuleFunc) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return f(input)
}
