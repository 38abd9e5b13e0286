// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/primer/internal/tensor"
)

// Type aliases for public API

// Tensor is a fixed-shape multi-dimensional array of float64 values
// stored contiguously in row-major order.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// ShapeError describes an operand whose shape does not fit an operation.
// It matches ErrShapeMismatch with errors.Is.
type ShapeError = tensor.ShapeError

// Errors.
var (
	ErrShapeMismatch      = tensor.ErrShapeMismatch
	ErrNumericInstability = tensor.ErrNumericInstability
	ErrInvalidConfig      = tensor.ErrInvalidConfig
)

// Creation

// Zeros creates a zero-filled tensor. Panics on a non-positive dimension.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows creates a 2-D tensor from nested slices.
func FromRows(rows [][]float64) (*Tensor, error) {
	return tensor.FromRows(rows)
}

// Vector creates a 1-D tensor holding a copy of values.
func Vector(values ...float64) (*Tensor, error) {
	return tensor.Vector(values...)
}

// Operations

// MatMul computes a @ b for a [m, k] and b [k, n].
func MatMul(a, b *Tensor) (*Tensor, error) {
	return tensor.MatMul(a, b)
}

// Transpose returns the transpose of a 2-D tensor.
func Transpose(t *Tensor) (*Tensor, error) {
	return tensor.Transpose(t)
}

// Add returns the element-wise sum of two equally shaped tensors.
func Add(a, b *Tensor) (*Tensor, error) {
	return tensor.Add(a, b)
}

// Scale returns s * t.
func Scale(t *Tensor, s float64) *Tensor {
	return tensor.Scale(t, s)
}

// Map applies fn to every element and returns a new tensor.
func Map(t *Tensor, fn func(float64) float64) *Tensor {
	return tensor.Map(t, fn)
}

// Softmax converts v into a probability vector.
func Softmax(v []float64) ([]float64, error) {
	return tensor.Softmax(v)
}

// SoftmaxRows applies Softmax to each row of a 2-D tensor.
func SoftmaxRows(t *Tensor) (*Tensor, error) {
	return tensor.SoftmaxRows(t)
}

// Argmax returns the index of the largest element of v.
func Argmax(v []float64) int {
	return tensor.Argmax(v)
}

// Activations

// ReLU returns max(0, x).
func ReLU(x float64) float64 { return tensor.ReLU(x) }

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x float64) float64 { return tensor.Sigmoid(x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x float64) float64 { return tensor.Tanh(x) }
