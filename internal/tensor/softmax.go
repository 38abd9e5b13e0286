package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax converts v into a probability vector:
//
//	softmax(v)[i] = exp(v[i] - max(v)) / Σ_j exp(v[j] - max(v))
//
// Subtracting max(v) keeps every exponent <= 0, so large inputs cannot
// overflow. Non-finite input or output fails with ErrNumericInstability.
// The result is a new slice; v is not modified.
func Softmax(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, shapeErr("softmax", Shape{0}, nil, "empty input")
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("softmax: %w: input[%d] = %v", ErrNumericInstability, i, x)
		}
	}

	maxVal := floats.Max(v)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Exp(x - maxVal)
	}

	// The max element contributes exp(0) = 1, so sum >= 1.
	sum := floats.Sum(out)
	floats.Scale(1/sum, out)

	for i, p := range out {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("softmax: %w: output[%d] = %v", ErrNumericInstability, i, p)
		}
	}
	return out, nil
}

// SoftmaxRows applies Softmax independently to each row of a 2-D tensor.
func SoftmaxRows(t *Tensor) (*Tensor, error) {
	if t.Rank() != 2 {
		return nil, shapeErr("softmax_rows", t.shape, nil, "expected 2-D tensor")
	}

	out := Zeros(t.shape)
	for i := 0; i < t.shape[0]; i++ {
		row, err := Softmax(t.Row(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		copy(out.Row(i), row)
	}
	return out, nil
}
