package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// FeedForward is the position-wise feed-forward sublayer.
//
// Architecture:
//
//	FFN(x) = ReLU(x W1) W2
//
// Where:
//   - W1: [embed_dim, ffn_dim]
//   - W2: [ffn_dim, embed_dim]
//
// There are no biases. The same weights are applied to every row of x.
type FeedForward struct {
	W1 *Parameter // [embed_dim, ffn_dim]
	W2 *Parameter // [ffn_dim, embed_dim]
}

// NewFeedForward creates a feed-forward sublayer with uniformly initialized weights.
func NewFeedForward(embedDim, ffnDim int, init *Initializer) (*FeedForward, error) {
	err := requirePositive("ffn",
		field{"embed_dim", embedDim},
		field{"ffn_dim", ffnDim},
	)
	if err != nil {
		return nil, err
	}

	return &FeedForward{
		W1: init.Parameter("ffn.w1", tensor.Shape{embedDim, ffnDim}),
		W2: init.Parameter("ffn.w2", tensor.Shape{ffnDim, embedDim}),
	}, nil
}

// NewFeedForwardFromParams creates a feed-forward sublayer from explicit weights.
func NewFeedForwardFromParams(w1, w2 *tensor.Tensor) (*FeedForward, error) {
	s1, s2 := w1.Shape(), w2.Shape()
	if len(s1) != 2 {
		return nil, &tensor.ShapeError{Op: "ffn", Got: s1, Details: "w1 must be 2D"}
	}
	if want := (tensor.Shape{s1[1], s1[0]}); !s2.Equal(want) {
		return nil, &tensor.ShapeError{Op: "ffn", Got: s2, Want: want, Details: "w2 must map back to embed_dim"}
	}

	return &FeedForward{
		W1: NewParameter("ffn.w1", w1.Clone()),
		W2: NewParameter("ffn.w2", w2.Clone()),
	}, nil
}

// Forward computes ReLU(x W1) W2 for x [seq, embed_dim].
func (f *FeedForward) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	h, err := tensor.MatMul(x, f.W1.Tensor())
	if err != nil {
		return nil, fmt.Errorf("ffn: %w", err)
	}
	out, err := tensor.MatMul(tensor.Map(h, tensor.ReLU), f.W2.Tensor())
	if err != nil {
		return nil, fmt.Errorf("ffn: %w", err)
	}
	return out, nil
}

// Parameters returns both weight matrices.
func (f *FeedForward) Parameters() []*Parameter {
	return []*Parameter{f.W1, f.W2}
}
