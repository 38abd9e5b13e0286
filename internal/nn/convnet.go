package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
)

// ConvNetConfig fixes every shape used by a ConvNet.
type ConvNetConfig struct {
	InChannels    int // Channels of the input image
	Conv1Channels int // Filters in the first convolution
	Conv2Channels int // Filters in the second convolution
	KernelSize    int // Square kernel size of both convolutions
	PoolSize      int // Non-overlapping pool window after each convolution
	Height        int // Input image height
	Width         int // Input image width
	NumClasses    int // Size of the output probability vector

	Seed     uint64          // Seed for uniform parameter initialization
	Parallel parallel.Config // Fan-out of convolution output channels
}

// DefaultConvNetConfig returns the MNIST-sized configuration:
// [1,28,28] -> conv(8,3x3) -> pool 2 -> conv(16,3x3) -> pool 2 -> 400 -> 10.
func DefaultConvNetConfig() ConvNetConfig {
	return ConvNetConfig{
		InChannels:    1,
		Conv1Channels: 8,
		Conv2Channels: 16,
		KernelSize:    3,
		PoolSize:      2,
		Height:        28,
		Width:         28,
		NumClasses:    10,
		Seed:          1,
	}
}

// Validate checks that the configuration yields valid parameter shapes.
func (c ConvNetConfig) Validate() error {
	err := requirePositive("convnet",
		field{"in_channels", c.InChannels},
		field{"conv1_channels", c.Conv1Channels},
		field{"conv2_channels", c.Conv2Channels},
		field{"kernel_size", c.KernelSize},
		field{"pool_size", c.PoolSize},
		field{"height", c.Height},
		field{"width", c.Width},
		field{"num_classes", c.NumClasses},
	)
	if err != nil {
		return err
	}

	h, w := c.featureMap()
	if h <= 0 {
		return &ConfigError{Component: "convnet", Field: "height", Value: c.Height,
			Reason: "too small for two convolution+pool stages"}
	}
	if w <= 0 {
		return &ConfigError{Component: "convnet", Field: "width", Value: c.Width,
			Reason: "too small for two convolution+pool stages"}
	}
	return nil
}

// featureMap returns the spatial size after both conv+pool stages.
// Non-positive results mean the input is too small.
func (c ConvNetConfig) featureMap() (int, int) {
	stage := func(n int) int {
		n = n - c.KernelSize + 1
		if n <= 0 {
			return 0
		}
		return n / c.PoolSize
	}
	return stage(stage(c.Height)), stage(stage(c.Width))
}

// FeatureSize returns the flattened feature length fed to the classifier.
// For the default config this is 16*5*5 = 400.
func (c ConvNetConfig) FeatureSize() int {
	h, w := c.featureMap()
	return c.Conv2Channels * h * w
}

// ConvNet classifies image-like tensors with two convolution+pool stages
// and a dense classifier.
//
// Pipeline (fixed order):
//
//	conv1 -> pool -> conv2 -> pool -> flatten -> dense -> softmax
//
// Example:
//
//	net, err := nn.NewConvNet(nn.DefaultConvNetConfig())
//	probs, err := net.Forward(image) // [1,28,28] -> [10]
type ConvNet struct {
	cfg      ConvNetConfig
	conv1    *Conv2D
	conv2    *Conv2D
	pool     *MaxPool2D
	fc       *Dense
	features *Sequential
}

// NewConvNet builds a ConvNet with uniformly initialized parameters.
func NewConvNet(cfg ConvNetConfig) (*ConvNet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	init := NewInitializer(cfg.Seed)

	conv1, err := NewConv2D(cfg.InChannels, cfg.Conv1Channels, cfg.KernelSize, init)
	if err != nil {
		return nil, fmt.Errorf("conv1: %w", err)
	}
	conv2, err := NewConv2D(cfg.Conv1Channels, cfg.Conv2Channels, cfg.KernelSize, init)
	if err != nil {
		return nil, fmt.Errorf("conv2: %w", err)
	}
	fc, err := NewDense(cfg.FeatureSize(), cfg.NumClasses, init)
	if err != nil {
		return nil, fmt.Errorf("fc: %w", err)
	}

	return newConvNet(cfg, conv1, conv2, fc)
}

// NewConvNetFromLayers assembles a ConvNet from explicit layers. The layer
// shapes must chain: conv1 out == conv2 in, and the flattened feature size
// for the configured input must equal fc's input features.
func NewConvNetFromLayers(cfg ConvNetConfig, conv1, conv2 *Conv2D, fc *Dense) (*ConvNet, error) {
	cfg.InChannels = conv1.InChannels()
	cfg.Conv1Channels = conv1.OutChannels()
	cfg.Conv2Channels = conv2.OutChannels()
	cfg.NumClasses = fc.OutFeatures()

	k1, k2 := conv1.KernelSize(), conv2.KernelSize()
	if k1[0] != k1[1] || k1 != k2 {
		return nil, &ConfigError{Component: "convnet", Field: "kernel_size", Value: k2[0],
			Reason: "both convolutions must share one square kernel"}
	}
	cfg.KernelSize = k1[0]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if conv2.InChannels() != conv1.OutChannels() {
		return nil, &tensor.ShapeError{Op: "convnet", Got: tensor.Shape{conv2.InChannels()},
			Want: tensor.Shape{conv1.OutChannels()}, Details: "conv2 input channels"}
	}
	if fc.InFeatures() != cfg.FeatureSize() {
		return nil, &tensor.ShapeError{Op: "convnet", Got: tensor.Shape{fc.InFeatures()},
			Want: tensor.Shape{cfg.FeatureSize()}, Details: "classifier input features"}
	}

	return newConvNet(cfg, conv1, conv2, fc)
}

func newConvNet(cfg ConvNetConfig, conv1, conv2 *Conv2D, fc *Dense) (*ConvNet, error) {
	pool, err := NewMaxPool2D(cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	conv1.SetParallel(cfg.Parallel)
	conv2.SetParallel(cfg.Parallel)

	return &ConvNet{
		cfg:      cfg,
		conv1:    conv1,
		conv2:    conv2,
		pool:     pool,
		fc:       fc,
		features: NewSequential(conv1, pool, conv2, pool, ModuleFunc(flattenModule)),
	}, nil
}

func flattenModule(input *tensor.Tensor) (*tensor.Tensor, error) {
	return Flatten(input), nil
}

// Features runs the convolutional stages and returns the flattened feature vector.
// The input must be exactly [InChannels, Height, Width]: a different layout
// can flatten to the right length while feeding the classifier the wrong
// spatial positions.
func (n *ConvNet) Features(input *tensor.Tensor) (*tensor.Tensor, error) {
	want := tensor.Shape{n.cfg.InChannels, n.cfg.Height, n.cfg.Width}
	if !input.Shape().Equal(want) {
		return nil, &tensor.ShapeError{Op: "convnet", Got: input.Shape(), Want: want}
	}

	features, err := n.features.Forward(input)
	if err != nil {
		return nil, fmt.Errorf("convnet: %w", err)
	}
	if features.NumElements() != n.fc.InFeatures() {
		return nil, &tensor.ShapeError{
			Op:      "convnet",
			Got:     input.Shape(),
			Want:    want,
			Details: fmt.Sprintf("flattened features %d != classifier inputs %d", features.NumElements(), n.fc.InFeatures()),
		}
	}
	return features, nil
}

// Classify maps a flattened feature vector to class probabilities:
// softmax(dense(features)).
func (n *ConvNet) Classify(features *tensor.Tensor) (*tensor.Tensor, error) {
	logits, err := n.fc.Forward(features)
	if err != nil {
		return nil, fmt.Errorf("convnet: %w", err)
	}

	probs, err := tensor.Softmax(logits.Data())
	if err != nil {
		return nil, fmt.Errorf("convnet: %w", err)
	}
	return tensor.Vector(probs...)
}

// Forward returns the class probability vector for input [C,H,W].
//
// Inputs whose dimensions do not reduce to the classifier's feature size
// fail with tensor.ErrShapeMismatch.
func (n *ConvNet) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	features, err := n.Features(input)
	if err != nil {
		return nil, err
	}
	return n.Classify(features)
}

// Predict returns the most probable class and its probability.
func (n *ConvNet) Predict(input *tensor.Tensor) (int, float64, error) {
	probs, err := n.Forward(input)
	if err != nil {
		return 0, 0, err
	}
	class := tensor.Argmax(probs.Data())
	return class, probs.At(class), nil
}

// Config returns the configuration the network was built with.
func (n *ConvNet) Config() ConvNetConfig {
	return n.cfg
}

// Conv1 returns the first convolution layer.
func (n *ConvNet) Conv1() *Conv2D {
	return n.conv1
}

// Conv2 returns the second convolution layer.
func (n *ConvNet) Conv2() *Conv2D {
	return n.conv2
}

// FC returns the classifier layer.
func (n *ConvNet) FC() *Dense {
	return n.fc
}

// Parameters returns all parameters in pipeline order.
func (n *ConvNet) Parameters() []*Parameter {
	params := append([]*Parameter{}, n.conv1.Parameters()...)
	params = append(params, n.conv2.Parameters()...)
	return append(params, n.fc.Parameters()...)
}

// String returns a string representation of the network.
func (n *ConvNet) String() string {
	return fmt.Sprintf("ConvNet(%v -> %v -> %v -> %v -> %v)", n.conv1, n.pool, n.conv2, n.pool, n.fc)
}
