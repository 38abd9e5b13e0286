package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
)

func TestConv2D_Creation(t *testing.T) {
	conv, err := NewConv2D(1, 8, 3, NewInitializer(1))
	require.NoError(t, err)

	assert.Equal(t, 1, conv.InChannels())
	assert.Equal(t, 8, conv.OutChannels())
	assert.Equal(t, [2]int{3, 3}, conv.KernelSize())
	assert.Equal(t, tensor.Shape{8, 1, 3, 3}, conv.weight.Shape())
	assert.Equal(t, tensor.Shape{8}, conv.bias.Shape())
	assert.Len(t, conv.Parameters(), 2)
	assert.Equal(t, "Conv2D(in_channels=1, out_channels=8, kernel_size=(3, 3))", conv.String())
}

func TestConv2D_InvalidConfig(t *testing.T) {
	tests := []struct {
		name            string
		in, out, kernel int
		wantField       string
	}{
		{"zero in", 0, 8, 3, "in_channels"},
		{"negative out", 1, -1, 3, "out_channels"},
		{"zero kernel", 1, 8, 0, "kernel_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConv2D(tt.in, tt.out, tt.kernel, NewInitializer(1))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantField, ce.Field)
		})
	}
}

func TestConv2D_ForwardShape(t *testing.T) {
	conv, err := NewConv2D(1, 8, 3, NewInitializer(1))
	require.NoError(t, err)

	out, err := conv.Forward(tensor.Zeros(tensor.Shape{1, 28, 28}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{8, 26, 26}, out.Shape())
	assert.Equal(t, [2]int{26, 26}, conv.ComputeOutputSize(28, 28))
}

func TestConv2D_ForwardValues(t *testing.T) {
	weight, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 3, 3})
	require.NoError(t, err)

	tests := []struct {
		name     string
		bias     float64
		expected []float64
	}{
		// [0,0]: 1*1 + 2*2 + 3*4 + 4*5 = 37
		// [0,1]: 1*2 + 2*3 + 3*5 + 4*6 = 47
		// [1,0]: 1*4 + 2*5 + 3*7 + 4*8 = 67
		// [1,1]: 1*5 + 2*6 + 3*8 + 4*9 = 77
		{"no bias", 0, []float64{37, 47, 67, 77}},
		// Bias is added exactly once; negative sums are clamped by ReLU.
		{"bias once", 1, []float64{38, 48, 68, 78}},
		{"relu clamps", -50, []float64{0, 0, 17, 27}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := NewConv2DFromParams(weight, vec(t, tt.bias))
			require.NoError(t, err)

			out, err := conv.Forward(input)
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{1, 2, 2}, out.Shape())
			assert.Equal(t, tt.expected, out.Data())
		})
	}
}

func TestConv2D_MultiChannel(t *testing.T) {
	// 2 input channels -> 2 output channels, 1x1 kernels.
	// out[0] = ReLU(1*in[0] + 1*in[1] + 0), out[1] = ReLU(1*in[0] - 1*in[1] + 10)
	weight, err := tensor.FromSlice([]float64{1, 1, 1, -1}, tensor.Shape{2, 2, 1, 1})
	require.NoError(t, err)
	conv, err := NewConv2DFromParams(weight, vec(t, 0, 10))
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 1, 2})
	require.NoError(t, err)

	out, err := conv.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 1, 2}, out.Shape())
	assert.Equal(t, []float64{4, 6, 8, 8}, out.Data())
}

func TestConv2D_FromParamsReadsShape(t *testing.T) {
	weight := tensor.Zeros(tensor.Shape{16, 8, 3, 5})
	conv, err := NewConv2DFromParams(weight, tensor.Zeros(tensor.Shape{16}))
	require.NoError(t, err)

	assert.Equal(t, 16, conv.OutChannels())
	assert.Equal(t, 8, conv.InChannels())
	assert.Equal(t, [2]int{3, 5}, conv.KernelSize())

	_, err = NewConv2DFromParams(tensor.Zeros(tensor.Shape{16, 8, 3}), tensor.Zeros(tensor.Shape{16}))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = NewConv2DFromParams(weight, tensor.Zeros(tensor.Shape{8}))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestConv2D_FromParamsCopiesTensors(t *testing.T) {
	weight := randomTensor(t, 1, tensor.Shape{2, 1, 2, 2})
	bias := vec(t, 0.1, -0.1)
	conv, err := NewConv2DFromParams(weight, bias)
	require.NoError(t, err)

	input := randomTensor(t, 2, tensor.Shape{1, 4, 4})
	before, err := conv.Forward(input)
	require.NoError(t, err)

	weight.Data()[0] = 100
	bias.Data()[1] = 100

	after, err := conv.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, before.Data(), after.Data())
}

func TestConv2D_ShapeMismatch(t *testing.T) {
	conv, err := NewConv2D(8, 16, 3, NewInitializer(1))
	require.NoError(t, err)

	tests := []struct {
		name  string
		shape tensor.Shape
	}{
		{"wrong channels", tensor.Shape{1, 13, 13}},
		{"not 3D", tensor.Shape{13, 13}},
		{"smaller than kernel", tensor.Shape{8, 2, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conv.Forward(tensor.Zeros(tt.shape))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "got %v", err)
		})
	}
}

func TestConv2D_ParallelMatchesSequential(t *testing.T) {
	conv, err := NewConv2D(3, 12, 3, NewInitializer(5))
	require.NoError(t, err)
	input := randomTensor(t, 11, tensor.Shape{3, 17, 19})

	conv.SetParallel(parallel.Sequential())
	seq, err := conv.Forward(input)
	require.NoError(t, err)

	conv.SetParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	par, err := conv.Forward(input)
	require.NoError(t, err)

	assert.Equal(t, seq.Data(), par.Data())
}
