package nn

import (
	"fmt"

	"github.com/born-ml/primer/internal/tensor"
)

// LSTMWeights holds the gate parameters of an LSTMCell.
//
// Every weight matrix has shape [input_size+hidden_size, hidden_size] and
// multiplies the row vector [x, h]. Every bias has shape [hidden_size].
type LSTMWeights struct {
	Forget    *tensor.Tensor
	Input     *tensor.Tensor
	Candidate *tensor.Tensor
	Output    *tensor.Tensor

	ForgetBias    *tensor.Tensor
	InputBias     *tensor.Tensor
	CandidateBias *tensor.Tensor
	OutputBias    *tensor.Tensor
}

// DefaultLSTMWeights returns the preconfigured weights for a cell with a
// scalar input and a hidden size of 2.
//
// The recurrent rows are the documented 2x2 gate matrices; the input row
// repeats each matrix's first row.
func DefaultLSTMWeights() LSTMWeights {
	gate := func(r0, r1 []float64) *tensor.Tensor {
		return mustRows([][]float64{r0, r0, r1})
	}
	return LSTMWeights{
		Forget:    gate([]float64{0.1, 0.2}, []float64{0.3, 0.4}),
		Input:     gate([]float64{0.5, 0.6}, []float64{0.7, 0.8}),
		Candidate: gate([]float64{0.9, 1.0}, []float64{1.1, 1.2}),
		Output:    gate([]float64{1.3, 1.4}, []float64{1.5, 1.6}),

		ForgetBias:    mustVector(0.1, 0.2),
		InputBias:     mustVector(0.3, 0.4),
		CandidateBias: mustVector(0.5, 0.6),
		OutputBias:    mustVector(0.7, 0.8),
	}
}

// LSTMConfig sizes a randomly initialized LSTMCell.
type LSTMConfig struct {
	InputSize  int    // Elements per input step
	HiddenSize int    // Elements in the hidden and cell state
	Seed       uint64 // Seed for uniform parameter initialization
}

// LSTMCell is a single-step gated memory cell.
//
// Each Step computes, with xh = [x, h]:
//
//	f  = sigmoid(xh · W_f + b_f)
//	i  = sigmoid(xh · W_i + b_i)
//	c~ = tanh(xh · W_c + b_c)
//	c' = f ⊙ c + i ⊙ c~
//	o  = sigmoid(xh · W_o + b_o)
//	h' = o ⊙ tanh(c')
//
// and replaces (h, c) with (h', c'). Because the state changes, stepping
// twice with the same input generally returns two different outputs.
//
// An LSTMCell owns its state exclusively and is not safe for concurrent use.
type LSTMCell struct {
	inputSize  int
	hiddenSize int

	forget    gate
	input     gate
	candidate gate
	output    gate

	hidden []float64
	cell   []float64
}

// gate is one affine projection of xh followed by an activation.
type gate struct {
	weight     *Parameter // [input_size+hidden_size, hidden_size]
	bias       *Parameter // [hidden_size]
	activation func(float64) float64
}

func (g gate) forward(xh *tensor.Tensor) ([]float64, error) {
	z, err := tensor.MatMul(xh, g.weight.Tensor())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.weight.Name(), err)
	}

	bias := g.bias.Tensor().Data()
	out := z.Data()
	for j := range out {
		out[j] = g.activation(out[j] + bias[j])
	}
	return out, nil
}

// NewLSTMCell creates a cell with uniformly initialized weights and zero state.
func NewLSTMCell(cfg LSTMConfig) (*LSTMCell, error) {
	err := requirePositive("lstm",
		field{"input_size", cfg.InputSize},
		field{"hidden_size", cfg.HiddenSize},
	)
	if err != nil {
		return nil, err
	}

	init := NewInitializer(cfg.Seed)
	weightShape := tensor.Shape{cfg.InputSize + cfg.HiddenSize, cfg.HiddenSize}
	biasShape := tensor.Shape{cfg.HiddenSize}

	return NewLSTMCellWithWeights(LSTMWeights{
		Forget:        init.Uniform(weightShape),
		Input:         init.Uniform(weightShape),
		Candidate:     init.Uniform(weightShape),
		Output:        init.Uniform(weightShape),
		ForgetBias:    init.Uniform(biasShape),
		InputBias:     init.Uniform(biasShape),
		CandidateBias: init.Uniform(biasShape),
		OutputBias:    init.Uniform(biasShape),
	})
}

// NewLSTMCellWithWeights creates a cell from explicit weights and zero state.
//
// The hidden size is taken from the forget bias and the input size from
// the remaining rows of the forget weights; every other tensor must agree.
func NewLSTMCellWithWeights(w LSTMWeights) (*LSTMCell, error) {
	if w.Forget == nil || w.Input == nil || w.Candidate == nil || w.Output == nil ||
		w.ForgetBias == nil || w.InputBias == nil || w.CandidateBias == nil || w.OutputBias == nil {
		return nil, fmt.Errorf("lstm: %w: all gate weights and biases are required", tensor.ErrInvalidConfig)
	}

	fb := w.ForgetBias.Shape()
	if len(fb) != 1 {
		return nil, &tensor.ShapeError{Op: "lstm", Got: fb, Details: "forget bias must be 1D"}
	}
	hiddenSize := fb[0]

	fw := w.Forget.Shape()
	if len(fw) != 2 || fw[0] <= hiddenSize {
		return nil, &tensor.ShapeError{Op: "lstm", Got: fw,
			Details: fmt.Sprintf("forget weights must be [input_size+%d, %d] with input_size > 0", hiddenSize, hiddenSize)}
	}
	inputSize := fw[0] - hiddenSize

	weightShape := tensor.Shape{inputSize + hiddenSize, hiddenSize}
	biasShape := tensor.Shape{hiddenSize}

	c := &LSTMCell{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		hidden:     make([]float64, hiddenSize),
		cell:       make([]float64, hiddenSize),
	}

	specs := []struct {
		dst        *gate
		name       string
		weight     *tensor.Tensor
		bias       *tensor.Tensor
		activation func(float64) float64
	}{
		{&c.forget, "forget", w.Forget, w.ForgetBias, tensor.Sigmoid},
		{&c.input, "input", w.Input, w.InputBias, tensor.Sigmoid},
		{&c.candidate, "candidate", w.Candidate, w.CandidateBias, tensor.Tanh},
		{&c.output, "output", w.Output, w.OutputBias, tensor.Sigmoid},
	}
	for _, s := range specs {
		if got := s.weight.Shape(); !got.Equal(weightShape) {
			return nil, &tensor.ShapeError{Op: "lstm", Got: got, Want: weightShape, Details: s.name + " weights"}
		}
		if got := s.bias.Shape(); !got.Equal(biasShape) {
			return nil, &tensor.ShapeError{Op: "lstm", Got: got, Want: biasShape, Details: s.name + " bias"}
		}
		*s.dst = gate{
			weight:     NewParameter("lstm."+s.name+".weight", s.weight.Clone()),
			bias:       NewParameter("lstm."+s.name+".bias", s.bias.Clone()),
			activation: s.activation,
		}
	}

	return c, nil
}

// NewDefaultLSTMCell creates a cell with DefaultLSTMWeights.
func NewDefaultLSTMCell() *LSTMCell {
	c, err := NewLSTMCellWithWeights(DefaultLSTMWeights())
	if err != nil {
		panic(fmt.Sprintf("lstm: default weights: %v", err))
	}
	return c
}

// Step advances the cell by one time step with input x and returns a copy
// of the new hidden state.
func (c *LSTMCell) Step(x []float64) ([]float64, error) {
	if len(x) != c.inputSize {
		return nil, &tensor.ShapeError{Op: "lstm", Got: tensor.Shape{len(x)}, Want: tensor.Shape{c.inputSize}}
	}

	xhData := make([]float64, 0, c.inputSize+c.hiddenSize)
	xhData = append(xhData, x...)
	xhData = append(xhData, c.hidden...)
	xh, err := tensor.FromSlice(xhData, tensor.Shape{1, len(xhData)})
	if err != nil {
		return nil, err
	}

	f, err := c.forget.forward(xh)
	if err != nil {
		return nil, err
	}
	i, err := c.input.forward(xh)
	if err != nil {
		return nil, err
	}
	candidate, err := c.candidate.forward(xh)
	if err != nil {
		return nil, err
	}
	o, err := c.output.forward(xh)
	if err != nil {
		return nil, err
	}

	cell := make([]float64, c.hiddenSize)
	hidden := make([]float64, c.hiddenSize)
	for j := range cell {
		cell[j] = f[j]*c.cell[j] + i[j]*candidate[j]
		hidden[j] = o[j] * tensor.Tanh(cell[j])
	}

	// State is only replaced once every gate succeeded.
	c.cell = cell
	c.hidden = hidden

	return c.Hidden(), nil
}

// StepScalar steps a cell whose input size is 1 and returns the first
// element of the new hidden state.
func (c *LSTMCell) StepScalar(x float64) (float64, error) {
	h, err := c.Step([]float64{x})
	if err != nil {
		return 0, err
	}
	return h[0], nil
}

// Run feeds a scalar series through StepScalar and returns one output per step.
// Steps are strictly sequential; state carries over between elements and
// past the end of the series.
func (c *LSTMCell) Run(series []float64) ([]float64, error) {
	outputs := make([]float64, 0, len(series))
	for t, x := range series {
		y, err := c.StepScalar(x)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", t, err)
		}
		outputs = append(outputs, y)
	}
	return outputs, nil
}

// Hidden returns a copy of the hidden state.
func (c *LSTMCell) Hidden() []float64 {
	return append([]float64(nil), c.hidden...)
}

// Cell returns a copy of the cell state.
func (c *LSTMCell) Cell() []float64 {
	return append([]float64(nil), c.cell...)
}

// Reset zeroes the hidden and cell state.
func (c *LSTMCell) Reset() {
	clear(c.hidden)
	clear(c.cell)
}

// InputSize returns the number of input elements per step.
func (c *LSTMCell) InputSize() int {
	return c.inputSize
}

// HiddenSize returns the size of the hidden and cell state.
func (c *LSTMCell) HiddenSize() int {
	return c.hiddenSize
}

// Parameters returns the gate parameters in forget, input, candidate, output order.
func (c *LSTMCell) Parameters() []*Parameter {
	return []*Parameter{
		c.forget.weight, c.forget.bias,
		c.input.weight, c.input.bias,
		c.candidate.weight, c.candidate.bias,
		c.output.weight, c.output.bias,
	}
}

// String returns a string representation of the cell.
func (c *LSTMCell) String() string {
	return fmt.Sprintf("LSTMCell(input_size=%d, hidden_size=%d)", c.inputSize, c.hiddenSize)
}

func mustRows(rows [][]float64) *tensor.Tensor {
	t, err := tensor.FromRows(rows)
	if err != nil {
		panic(err)
	}
	return t
}

func mustVector(values ...float64) *tensor.Tensor {
	t, err := tensor.Vector(values...)
	if err != nil {
		panic(err)
	}
	return t
}
