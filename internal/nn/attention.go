package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
)

// Project applies a per-token linear projection: input [seq, d_in] @ w [d_in, d_out].
func Project(input, w *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.MatMul(input, w)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return out, nil
}

// ScaledDotProductAttention computes
//
//	Attention(Q, K, V) = softmax(Q K^T * scale) V
//
// with softmax applied per row, so every output row is a convex
// combination of the rows of V.
//
// Parameters:
//   - query: [seq_q, d_k]
//   - key:   [seq_k, d_k]
//   - value: [seq_k, d_v]
//   - scale: multiplier for the scores (0 for auto-compute as 1/sqrt(d_k))
//
// Returns:
//   - output:  [seq_q, d_v]
//   - weights: [seq_q, seq_k], each row non-negative and summing to 1
func ScaledDotProductAttention(query, key, value *tensor.Tensor, scale float64) (*tensor.Tensor, *tensor.Tensor, error) {
	if query.Rank() != 2 || key.Rank() != 2 || value.Rank() != 2 {
		return nil, nil, &tensor.ShapeError{Op: "attention", Got: query.Shape(), Details: "query, key and value must be 2D"}
	}
	if query.Dim(1) != key.Dim(1) {
		return nil, nil, &tensor.ShapeError{Op: "attention", Got: key.Shape(), Details: "query and key must have same feature size"}
	}
	if key.Dim(0) != value.Dim(0) {
		return nil, nil, &tensor.ShapeError{Op: "attention", Got: value.Shape(), Details: "key and value must have same seq length"}
	}

	if scale == 0 {
		scale = 1.0 / math.Sqrt(float64(query.Dim(1)))
	}

	kT, err := tensor.Transpose(key)
	if err != nil {
		return nil, nil, err
	}
	scores, err := tensor.MatMul(query, kT)
	if err != nil {
		return nil, nil, err
	}

	weights, err := tensor.SoftmaxRows(tensor.Scale(scores, scale))
	if err != nil {
		return nil, nil, fmt.Errorf("attention: %w", err)
	}

	output, err := tensor.MatMul(weights, value)
	if err != nil {
		return nil, nil, err
	}
	return output, weights, nil
}

// SelfAttention projects its input to queries, keys and values and mixes
// them with scaled dot-product attention, one head at a time.
//
// Architecture:
//
//	Q, K, V = x W_Q, x W_K, x W_V
//	head_h  = Attention(Q[:, h], K[:, h], V[:, h])   scale 1/sqrt(head_dim)
//	out     = Concat(head_1, ..., head_n)
//
// Heads are contiguous column slices of width hidden/num_heads. With one
// head this is plain single-head attention scaled by 1/sqrt(hidden).
// There is no output projection.
type SelfAttention struct {
	WQ       *Parameter // [hidden, hidden]
	WK       *Parameter // [hidden, hidden]
	WV       *Parameter // [hidden, hidden]
	NumHeads int
	HeadDim  int
	Hidden   int

	parallel parallel.Config
}

// NewSelfAttention creates an attention module with uniformly initialized projections.
func NewSelfAttention(hidden, numHeads int, init *Initializer) (*SelfAttention, error) {
	if err := validateHeads(hidden, numHeads); err != nil {
		return nil, err
	}

	shape := tensor.Shape{hidden, hidden}
	return &SelfAttention{
		WQ:       init.Parameter("attention.query", shape),
		WK:       init.Parameter("attention.key", shape),
		WV:       init.Parameter("attention.value", shape),
		NumHeads: numHeads,
		HeadDim:  hidden / numHeads,
		Hidden:   hidden,
	}, nil
}

// NewSelfAttentionFromParams creates an attention module from explicit
// [hidden, hidden] projection matrices.
func NewSelfAttentionFromParams(wq, wk, wv *tensor.Tensor, numHeads int) (*SelfAttention, error) {
	s := wq.Shape()
	if len(s) != 2 || s[0] != s[1] {
		return nil, &tensor.ShapeError{Op: "attention", Got: s, Details: "query projection must be square [hidden, hidden]"}
	}
	hidden := s[0]
	if got := wk.Shape(); !got.Equal(s) {
		return nil, &tensor.ShapeError{Op: "attention", Got: got, Want: s, Details: "key projection"}
	}
	if got := wv.Shape(); !got.Equal(s) {
		return nil, &tensor.ShapeError{Op: "attention", Got: got, Want: s, Details: "value projection"}
	}
	if err := validateHeads(hidden, numHeads); err != nil {
		return nil, err
	}

	return &SelfAttention{
		WQ:       NewParameter("attention.query", wq.Clone()),
		WK:       NewParameter("attention.key", wk.Clone()),
		WV:       NewParameter("attention.value", wv.Clone()),
		NumHeads: numHeads,
		HeadDim:  hidden / numHeads,
		Hidden:   hidden,
	}, nil
}

func validateHeads(hidden, numHeads int) error {
	err := requirePositive("attention",
		field{"hidden_size", hidden},
		field{"num_heads", numHeads},
	)
	if err != nil {
		return err
	}
	if hidden%numHeads != 0 {
		return &ConfigError{Component: "attention", Field: "num_heads", Value: numHeads,
			Reason: fmt.Sprintf("hidden size %d is not divisible by the head count", hidden)}
	}
	return nil
}

// SetParallel sets how heads are fanned out across goroutines.
func (a *SelfAttention) SetParallel(cfg parallel.Config) {
	a.parallel = cfg
}

// Forward computes self-attention over x [seq, hidden] and returns [seq, hidden].
func (a *SelfAttention) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() != 2 || x.Dim(1) != a.Hidden {
		return nil, &tensor.ShapeError{Op: "attention", Got: x.Shape(), Details: fmt.Sprintf("expected [seq, %d]", a.Hidden)}
	}

	q, err := Project(x, a.WQ.Tensor())
	if err != nil {
		return nil, err
	}
	k, err := Project(x, a.WK.Tensor())
	if err != nil {
		return nil, err
	}
	v, err := Project(x, a.WV.Tensor())
	if err != nil {
		return nil, err
	}

	if a.NumHeads == 1 {
		out, _, err := ScaledDotProductAttention(q, k, v, 0)
		return out, err
	}

	seq := x.Dim(0)
	output := tensor.Zeros(tensor.Shape{seq, a.Hidden})
	scale := 1.0 / math.Sqrt(float64(a.HeadDim))

	// Heads write disjoint column slices of output.
	err = parallel.ForErr(a.NumHeads, a.parallel, func(h int) error {
		lo, hi := h*a.HeadDim, (h+1)*a.HeadDim
		head, _, err := ScaledDotProductAttention(
			sliceColumns(q, lo, hi), sliceColumns(k, lo, hi), sliceColumns(v, lo, hi), scale)
		if err != nil {
			return fmt.Errorf("head %d: %w", h, err)
		}
		for i := 0; i < seq; i++ {
			copy(output.Row(i)[lo:hi], head.Row(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// Parameters returns the query, key and value projections.
func (a *SelfAttention) Parameters() []*Parameter {
	return []*Parameter{a.WQ, a.WK, a.WV}
}

// sliceColumns copies columns [lo, hi) of a 2-D tensor.
func sliceColumns(t *tensor.Tensor, lo, hi int) *tensor.Tensor {
	rows := t.Dim(0)
	out := tensor.Zeros(tensor.Shape{rows, hi - lo})
	for i := 0; i < rows; i++ {
		copy(out.Row(i), t.Row(i)[lo:hi])
	}
	return out
}
