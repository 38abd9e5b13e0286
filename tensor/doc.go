// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float64 tensor and the numeric operations
// shared by every model in primer.
//
// # Overview
//
// This package contains:
//   - Tensor: fixed-shape, row-major array of float64 values
//   - Matrix operations: MatMul, Transpose, Add, Scale
//   - Activations: ReLU, Sigmoid, Tanh
//   - Softmax: numerically stable, max-subtracted
//   - Errors: ErrShapeMismatch, ErrNumericInstability, ErrInvalidConfig
//
// # Basic Usage
//
//	import "github.com/born-ml/primer/tensor"
//
//	func main() {
//	    a, _ := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
//	    b, _ := tensor.FromRows([][]float64{{5, 6}, {7, 8}})
//
//	    c, err := tensor.MatMul(a, b) // [[19, 22], [43, 50]]
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    p, err := tensor.Softmax([]float64{1, 2, 3})
//	}
//
// # Errors
//
// Shape errors are reported as *ShapeError and match ErrShapeMismatch:
//
//	_, err := tensor.MatMul(a, tensor.Zeros(tensor.Shape{3, 1}))
//	if errors.Is(err, tensor.ErrShapeMismatch) {
//	    // inner dimensions differ
//	}
//
// Softmax reports NaN or Inf input or output as ErrNumericInstability.
package tensor
