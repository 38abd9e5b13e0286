package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
)

// Conv2D is a 2D convolutional layer with a fused ReLU.
//
// Performs, for every output channel oc and position (i, j):
//
//	out[oc][i][j] = ReLU(bias[oc] + Σ_ic Σ_ki Σ_kj input[ic][i+ki][j+kj] * weight[oc][ic][ki][kj])
//
// Input shape:  [in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_h, kernel_w]
// Bias shape:   [out_channels]
// Output shape: [out_channels, height-kernel_h+1, width-kernel_w+1]
//
// Stride is 1 and there is no padding.
//
// Example:
//
//	init := nn.NewInitializer(42)
//	conv, err := nn.NewConv2D(1, 8, 3, init)
//	out, err := conv.Forward(image) // [1,28,28] -> [8,26,26]
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelSize  [2]int

	weight *Parameter // [out_channels, in_channels, kernel_h, kernel_w]
	bias   *Parameter // [out_channels]

	parallel parallel.Config
}

// NewConv2D creates a convolution layer with a square kernel and
// parameters drawn from init.
func NewConv2D(inChannels, outChannels, kernelSize int, init *Initializer) (*Conv2D, error) {
	err := requirePositive("conv2d",
		field{"in_channels", inChannels},
		field{"out_channels", outChannels},
		field{"kernel_size", kernelSize},
	)
	if err != nil {
		return nil, err
	}

	weight := init.Parameter("conv2d.weight", tensor.Shape{outChannels, inChannels, kernelSize, kernelSize})
	bias := init.Parameter("conv2d.bias", tensor.Shape{outChannels})

	return &Conv2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  [2]int{kernelSize, kernelSize},
		weight:      weight,
		bias:        bias,
	}, nil
}

// NewConv2DFromParams creates a convolution layer from explicit tensors.
//
// All dimensions are read from the 4-D weight shape:
// out_channels = shape[0], in_channels = shape[1], kernel = shape[2] x shape[3].
func NewConv2DFromParams(weight, bias *tensor.Tensor) (*Conv2D, error) {
	ws := weight.Shape()
	if len(ws) != 4 {
		return nil, &tensor.ShapeError{Op: "conv2d", Got: ws, Details: "weight must be 4D [C_out,C_in,K_h,K_w]"}
	}
	if bs := bias.Shape(); !bs.Equal(tensor.Shape{ws[0]}) {
		return nil, &tensor.ShapeError{Op: "conv2d", Got: bs, Want: tensor.Shape{ws[0]}, Details: "bias must have one entry per output channel"}
	}

	return &Conv2D{
		inChannels:  ws[1],
		outChannels: ws[0],
		kernelSize:  [2]int{ws[2], ws[3]},
		weight:      NewParameter("conv2d.weight", weight.Clone()),
		bias:        NewParameter("conv2d.bias", bias.Clone()),
	}, nil
}

// SetParallel sets how output channels are fanned out across goroutines.
func (c *Conv2D) SetParallel(cfg parallel.Config) {
	c.parallel = cfg
}

// Forward performs the convolution.
//
// Input: [in_channels, height, width]
// Output: [out_channels, out_h, out_w].
func (c *Conv2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputShape := input.Shape()
	if len(inputShape) != 3 {
		return nil, &tensor.ShapeError{Op: "conv2d", Got: inputShape, Details: "expected 3D input [C,H,W]"}
	}
	if inputShape[0] != c.inChannels {
		return nil, &tensor.ShapeError{
			Op:      "conv2d",
			Got:     inputShape,
			Details: fmt.Sprintf("input channels %d != expected %d", inputShape[0], c.inChannels),
		}
	}

	H, W := inputShape[1], inputShape[2]
	KH, KW := c.kernelSize[0], c.kernelSize[1]
	outSize := c.ComputeOutputSize(H, W)
	HOut, WOut := outSize[0], outSize[1]
	if HOut <= 0 || WOut <= 0 {
		return nil, &tensor.ShapeError{
			Op:      "conv2d",
			Got:     inputShape,
			Details: fmt.Sprintf("input %dx%d smaller than kernel %dx%d", H, W, KH, KW),
		}
	}

	output := tensor.Zeros(tensor.Shape{c.outChannels, HOut, WOut})

	inputData := input.Data()
	kernelData := c.weight.Tensor().Data()
	biasData := c.bias.Tensor().Data()
	outputData := output.Data()
	CIn := c.inChannels

	// Output channels are independent; each goroutine owns one channel slab.
	parallel.For(c.outChannels, c.parallel, func(oc int) {
		kernelBase := oc * CIn * KH * KW
		outBase := oc * HOut * WOut
		for i := 0; i < HOut; i++ {
			for j := 0; j < WOut; j++ {
				sum := 0.0
				for ic := 0; ic < CIn; ic++ {
					for ki := 0; ki < KH; ki++ {
						inRow := ic*H*W + (i+ki)*W + j
						kRow := kernelBase + ic*KH*KW + ki*KW
						for kj := 0; kj < KW; kj++ {
							sum += inputData[inRow+kj] * kernelData[kRow+kj]
						}
					}
				}
				outputData[outBase+i*WOut+j] = tensor.ReLU(sum + biasData[oc])
			}
		}
	})

	return output, nil
}

// Parameters returns the weight and bias parameters.
func (c *Conv2D) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// String returns a string representation of the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, out_channels=%d, kernel_size=(%d, %d))",
		c.inChannels, c.outChannels, c.kernelSize[0], c.kernelSize[1])
}

// OutChannels returns the number of output channels.
func (c *Conv2D) OutChannels() int {
	return c.outChannels
}

// InChannels returns the number of input channels.
func (c *Conv2D) InChannels() int {
	return c.inChannels
}

// KernelSize returns the kernel size [height, width].
func (c *Conv2D) KernelSize() [2]int {
	return c.kernelSize
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (c *Conv2D) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{inputH - c.kernelSize[0] + 1, inputW - c.kernelSize[1] + 1}
}
