package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/primer/internal/tensor"
)

func TestDense_Creation(t *testing.T) {
	fc, err := NewDense(400, 10, NewInitializer(1))
	require.NoError(t, err)

	assert.Equal(t, 400, fc.InFeatures())
	assert.Equal(t, 10, fc.OutFeatures())
	assert.Equal(t, tensor.Shape{10, 400}, fc.weight.Shape())
	assert.Equal(t, tensor.Shape{10}, fc.bias.Shape())
	assert.Equal(t, "Dense(in_features=400, out_features=10)", fc.String())

	_, err = NewDense(0, 10, NewInitializer(1))
	assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))
}

func TestDense_Forward(t *testing.T) {
	tests := []struct {
		name     string
		weight   [][]float64
		bias     []float64
		input    []float64
		expected []float64
	}{
		{
			// [1*1 + 2*1 + 0.5, -3*1 + 1*1 + 0] = [3.5, -2] -> ReLU -> [3.5, 0]
			name:     "relu clamps negative",
			weight:   [][]float64{{1, 2}, {-3, 1}},
			bias:     []float64{0.5, 0},
			input:    []float64{1, 1},
			expected: []float64{3.5, 0},
		},
		{
			name:     "identity",
			weight:   [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
			bias:     []float64{0, 0, 0},
			input:    []float64{4, 5, 6},
			expected: []float64{4, 5, 6},
		},
		{
			name:     "wide to narrow",
			weight:   [][]float64{{1, 1, 1, 1}},
			bias:     []float64{-1},
			input:    []float64{1, 2, 3, 4},
			expected: []float64{9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := NewDenseFromParams(rows(t, tt.weight), vec(t, tt.bias...))
			require.NoError(t, err)

			out, err := fc.Forward(vec(t, tt.input...))
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{len(tt.expected)}, out.Shape())
			assert.InDeltaSlice(t, tt.expected, out.Data(), 1e-12)
		})
	}
}

func TestDense_FromParamsCopiesTensors(t *testing.T) {
	weight := rows(t, [][]float64{{1, 2}, {3, 4}})
	bias := vec(t, 0.5, 0.5)
	fc, err := NewDenseFromParams(weight, bias)
	require.NoError(t, err)

	weight.Data()[0] = -100
	bias.Data()[1] = -100

	// [1+2+0.5, 3+4+0.5]
	out, err := fc.Forward(vec(t, 1, 1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3.5, 7.5}, out.Data(), 1e-12)
}

func TestDense_Errors(t *testing.T) {
	fc, err := NewDenseFromParams(rows(t, [][]float64{{1, 2}, {3, 4}}), vec(t, 0, 0))
	require.NoError(t, err)

	_, err = fc.Forward(vec(t, 1, 2, 3))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = fc.Forward(rows(t, [][]float64{{1, 2}}))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = NewDenseFromParams(vec(t, 1, 2), vec(t, 0))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = NewDenseFromParams(rows(t, [][]float64{{1, 2}, {3, 4}}), vec(t, 0, 0, 0))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}
