package nn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/primer/internal/tensor"
)

// Bounds of the uniform distribution used for every weight and bias.
const (
	initMin = -0.5
	initMax = 0.5
)

// Initializer draws parameter values from U[-0.5, 0.5).
//
// Two initializers created with the same seed produce the same sequence
// of tensors, which makes whole models reproducible from their config.
// An Initializer is not safe for concurrent use.
type Initializer struct {
	dist distuv.Uniform
}

// NewInitializer creates an initializer seeded with seed.
func NewInitializer(seed uint64) *Initializer {
	return &Initializer{
		dist: distuv.Uniform{
			Min: initMin,
			Max: initMax,
			Src: rand.NewSource(seed),
		},
	}
}

// Uniform returns a new tensor of the given shape filled with values in [-0.5, 0.5).
func (in *Initializer) Uniform(shape tensor.Shape) *tensor.Tensor {
	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = in.dist.Rand()
	}
	return t
}

// Parameter returns a named parameter with uniform values.
func (in *Initializer) Parameter(name string, shape tensor.Shape) *Parameter {
	return NewParameter(name, in.Uniform(shape))
}
