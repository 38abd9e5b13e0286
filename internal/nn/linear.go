package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// Dense is a fully connected layer with a fused ReLU.
//
// Performs: y[i] = ReLU(bias[i] + Σ_j weight[i][j] * x[j])
// where:
//   - x is the input vector with in_features elements
//   - weight has shape [out_features, in_features]
//   - bias has shape [out_features]
//
// Example:
//
//	fc, err := nn.NewDense(400, 10, nn.NewInitializer(1))
//	y, err := fc.Forward(features) // [400] -> [10]
type Dense struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
}

// NewDense creates a Dense layer with parameters drawn from init.
func NewDense(inFeatures, outFeatures int, init *Initializer) (*Dense, error) {
	err := requirePositive("dense",
		field{"in_features", inFeatures},
		field{"out_features", outFeatures},
	)
	if err != nil {
		return nil, err
	}

	return &Dense{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      init.Parameter("dense.weight", tensor.Shape{outFeatures, inFeatures}),
		bias:        init.Parameter("dense.bias", tensor.Shape{outFeatures}),
	}, nil
}

// NewDenseFromParams creates a Dense layer from explicit tensors.
func NewDenseFromParams(weight, bias *tensor.Tensor) (*Dense, error) {
	ws := weight.Shape()
	if len(ws) != 2 {
		return nil, &tensor.ShapeError{Op: "dense", Got: ws, Details: "weight must be 2D [out_features, in_features]"}
	}
	if bs := bias.Shape(); !bs.Equal(tensor.Shape{ws[0]}) {
		return nil, &tensor.ShapeError{Op: "dense", Got: bs, Want: tensor.Shape{ws[0]}, Details: "bias must have one entry per output feature"}
	}

	return &Dense{
		inFeatures:  ws[1],
		outFeatures: ws[0],
		weight:      NewParameter("dense.weight", weight.Clone()),
		bias:        NewParameter("dense.bias", bias.Clone()),
	}, nil
}

// Forward computes the layer output for a 1-D input of in_features elements.
//
// Returns a 1-D tensor of out_features elements.
func (l *Dense) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if input.Rank() != 1 || input.Dim(0) != l.inFeatures {
		return nil, &tensor.ShapeError{Op: "dense", Got: input.Shape(), Want: tensor.Shape{l.inFeatures}}
	}

	column, err := input.Reshape(l.inFeatures, 1)
	if err != nil {
		return nil, err
	}

	// [out, in] @ [in, 1] -> [out, 1]
	product, err := tensor.MatMul(l.weight.Tensor(), column)
	if err != nil {
		return nil, fmt.Errorf("dense: %w", err)
	}

	biasData := l.bias.Tensor().Data()
	out := tensor.Zeros(tensor.Shape{l.outFeatures})
	outData := out.Data()
	for i, v := range product.Data() {
		outData[i] = tensor.ReLU(v + biasData[i])
	}
	return out, nil
}

// Parameters returns the weight and bias parameters.
func (l *Dense) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// InFeatures returns the number of input features.
func (l *Dense) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Dense) OutFeatures() int {
	return l.outFeatures
}

// String returns a string representation of the layer.
func (l *Dense) String() string {
	return fmt.Sprintf("Dense(in_features=%d, out_features=%d)", l.inFeatures, l.outFeatures)
}
