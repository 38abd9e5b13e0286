package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MatMul computes the matrix product a @ b.
//
// Requires a to be [m, k] and b to be [k, n]; the result is [m, n] and
// each entry is the dot product of a row of a with a column of b.
// Returns an ErrShapeMismatch error when the inner dimensions differ.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if a.Rank() != 2 {
		return nil, shapeErr("matmul", a.shape, nil, "left operand must be 2-D")
	}
	if b.Rank() != 2 {
		return nil, shapeErr("matmul", b.shape, nil, "right operand must be 2-D")
	}

	m, k := a.shape[0], a.shape[1]
	k2, n := b.shape[0], b.shape[1]
	if k != k2 {
		return nil, shapeErr("matmul", b.shape, Shape{k, n},
			"inner dimensions must match: %d vs %d", k, k2)
	}

	out := Zeros(Shape{m, n})
	dst := mat.NewDense(m, n, out.data)
	dst.Mul(mat.NewDense(m, k, a.data), mat.NewDense(k, n, b.data))
	return out, nil
}

// Transpose returns the [cols, rows] transpose of a 2-D tensor.
func Transpose(t *Tensor) (*Tensor, error) {
	if t.Rank() != 2 {
		return nil, shapeErr("transpose", t.shape, nil, "expected 2-D tensor")
	}

	rows, cols := t.shape[0], t.shape[1]
	out := Zeros(Shape{cols, rows})
	dst := mat.NewDense(cols, rows, out.data)
	dst.Copy(mat.NewDense(rows, cols, t.data).T())
	return out, nil
}

// Add returns the element-wise sum a + b. Shapes must be equal.
func Add(a, b *Tensor) (*Tensor, error) {
	if !a.shape.Equal(b.shape) {
		return nil, shapeErr("add", b.shape, a.shape, "operands must have equal shapes")
	}

	out := Zeros(a.shape)
	floats.AddTo(out.data, a.data, b.data)
	return out, nil
}

// Scale returns s * t as a new tensor.
func Scale(t *Tensor, s float64) *Tensor {
	out := t.Clone()
	floats.Scale(s, out.data)
	return out
}

// Map applies fn to every element and returns the result as a new tensor.
func Map(t *Tensor, fn func(float64) float64) *Tensor {
	out := Zeros(t.shape)
	for i, v := range t.data {
		out.data[i] = fn(v)
	}
	return out
}

// ReLU computes max(0, x).
func ReLU(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Sigmoid computes 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Tanh computes the hyperbolic tangent of x.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Argmax returns the index of the largest element of a non-empty vector.
func Argmax(v []float64) int {
	return floats.MaxIdx(v)
}
