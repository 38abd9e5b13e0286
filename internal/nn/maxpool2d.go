package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer over non-overlapping windows.
//
// Each channel's spatial grid is split into poolSize x poolSize blocks and
// every block is reduced to its maximum. Rows and columns left over at the
// bottom and right edges are dropped (floor division).
//
// Input shape:  [channels, height, width]
// Output shape: [channels, height/poolSize, width/poolSize]
//
// Example (2x2 pool):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
type MaxPool2D struct {
	poolSize int
}

// NewMaxPool2D creates a max pooling layer. poolSize must be positive.
func NewMaxPool2D(poolSize int) (*MaxPool2D, error) {
	if err := requirePositive("maxpool2d", field{"pool_size", poolSize}); err != nil {
		return nil, err
	}
	return &MaxPool2D{poolSize: poolSize}, nil
}

// Forward performs max pooling.
//
// Input: [channels, height, width]
// Output: [channels, out_height, out_width].
func (m *MaxPool2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputShape := input.Shape()
	if len(inputShape) != 3 {
		return nil, &tensor.ShapeError{Op: "maxpool2d", Got: inputShape, Details: "expected 3D input [C,H,W]"}
	}

	C, H, W := inputShape[0], inputShape[1], inputShape[2]
	outSize := m.ComputeOutputSize(H, W)
	HOut, WOut := outSize[0], outSize[1]
	if HOut == 0 || WOut == 0 {
		return nil, &tensor.ShapeError{
			Op:      "maxpool2d",
			Got:     inputShape,
			Details: fmt.Sprintf("input %dx%d smaller than pool window %d", H, W, m.poolSize),
		}
	}

	output := tensor.Zeros(tensor.Shape{C, HOut, WOut})
	inputData := input.Data()
	outputData := output.Data()
	p := m.poolSize

	for c := 0; c < C; c++ {
		for i := 0; i < HOut; i++ {
			for j := 0; j < WOut; j++ {
				maxVal := inputData[c*H*W+(i*p)*W+j*p]
				for pi := 0; pi < p; pi++ {
					row := c*H*W + (i*p+pi)*W + j*p
					for pj := 0; pj < p; pj++ {
						if v := inputData[row+pj]; v > maxVal {
							maxVal = v
						}
					}
				}
				outputData[c*HOut*WOut+i*WOut+j] = maxVal
			}
		}
	}

	return output, nil
}

// String returns a string representation of the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(pool_size=%d)", m.poolSize)
}

// PoolSize returns the pooling window size.
func (m *MaxPool2D) PoolSize() int {
	return m.poolSize
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (m *MaxPool2D) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{inputH / m.poolSize, inputW / m.poolSize}
}

// Flatten reshapes a tensor into a new, independent 1-D tensor in
// channel-major, then row-major, then column-major order.
func Flatten(input *tensor.Tensor) *tensor.Tensor {
	flat, err := input.Reshape(input.NumElements())
	if err != nil {
		// Reshape to the element count cannot fail.
		panic(err)
	}
	return flat
}
