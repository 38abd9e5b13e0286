package tensor

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every forward operation.
var (
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrNumericInstability = errors.New("numeric instability")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// ShapeError describes incompatible operand dimensions.
type ShapeError struct {
	Op      string // Operation that rejected the operands (e.g., "matmul")
	Got     Shape  // Offending operand shape
	Want    Shape  // Expected shape, nil when no single shape applies
	Details string // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	switch {
	case e.Want != nil && e.Details != "":
		return fmt.Sprintf("%s: shape mismatch: got %v, want %v: %s", e.Op, e.Got, e.Want, e.Details)
	case e.Want != nil:
		return fmt.Sprintf("%s: shape mismatch: got %v, want %v", e.Op, e.Got, e.Want)
	default:
		return fmt.Sprintf("%s: shape mismatch: got %v: %s", e.Op, e.Got, e.Details)
	}
}

// Unwrap makes errors.Is(err, ErrShapeMismatch) hold.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeErr(op string, got, want Shape, format string, args ...any) error {
	return &ShapeError{
		Op:      op,
		Got:     got.Clone(),
		Want:    want,
		Details: fmt.Sprintf(format, args...),
	}
}
