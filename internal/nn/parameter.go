package nn

import (
	"github.com/born-ml/primer/internal/tensor"
)

// Parameter is a named weight or bias tensor owned by one layer.
//
// Parameters are created once when the model is built and are never
// mutated by forward passes; there is no training in this package.
//
// Example:
//
//	weight := nn.NewParameter("conv1.weight", weightTensor)
//	w := weight.Tensor()
type Parameter struct {
	name   string         // Parameter name (e.g., "conv1.weight")
	tensor *tensor.Tensor // The parameter tensor
}

// NewParameter wraps t under the given name.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Shape returns the parameter's shape.
func (p *Parameter) Shape() tensor.Shape {
	return p.tensor.Shape()
}
