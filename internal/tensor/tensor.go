// Package tensor provides the float64 tensor and the primitive numeric
// operations (matmul, transpose, activations, softmax) shared by every model.
package tensor

import "fmt"

// Tensor is a fixed-shape multi-dimensional array of float64 values
// stored contiguously in row-major order.
//
// The shape is immutable after creation and always satisfies
// shape.NumElements() == len(data).
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
//	t.Set(1.5, 1, 2) // Row 1, column 2
type Tensor struct {
	shape   Shape
	strides []int
	data    []float64
}

// Zeros creates a zero-filled tensor with the given shape.
// Panics if the shape has a non-positive dimension.
func Zeros(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    make([]float64, shape.NumElements()),
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, shapeErr("from_slice", shape, nil,
			"shape requires %d elements, but got %d", shape.NumElements(), len(data))
	}

	t := Zeros(shape)
	copy(t.data, data)
	return t, nil
}

// FromRows creates a [len(rows), len(rows[0])] matrix from nested slices.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("from_rows: %w: empty matrix", ErrInvalidConfig)
	}

	cols := len(rows[0])
	t := Zeros(Shape{len(rows), cols})
	for i, row := range rows {
		if len(row) != cols {
			return nil, shapeErr("from_rows", Shape{len(row)}, Shape{cols}, "row %d", i)
		}
		copy(t.data[i*cols:], row)
	}
	return t, nil
}

// Vector creates a 1-D tensor holding a copy of values.
func Vector(values ...float64) (*Tensor, error) {
	return FromSlice(values, Shape{len(values)})
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns a view of the tensor's data.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Row returns a view of row i of a 2-D tensor.
func (t *Tensor) Row(i int) []float64 {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("Row() only works for 2-D tensors, got shape %v", t.shape))
	}
	cols := t.shape[1]
	return t.data[i*cols : (i+1)*cols]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}

	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.strides[i]
	}
	return offset
}

// Reshape returns a new tensor with the same elements and a different shape.
// The data is copied, so the result is independent of t.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	s := Shape(shape)
	if s.NumElements() != len(t.data) {
		return nil, shapeErr("reshape", t.shape, s,
			"cannot reshape %d elements", len(t.data))
	}
	return FromSlice(t.data, s)
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{
		shape:   t.shape.Clone(),
		strides: t.shape.ComputeStrides(),
		data:    data,
	}
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor[float64]%v", t.shape)
}
