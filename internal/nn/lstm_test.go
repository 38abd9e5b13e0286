package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/primer/internal/tensor"
)

// Hidden and cell states of the default cell after each step of
// 0.5, 0.8, 0.2, 0.9, 0.1 from zero state.
var defaultCellTrace = []struct {
	hidden [2]float64
	cell   [2]float64
}{
	{[2]float64{0.3474239702476799, 0.3998800310939227}, [2]float64{0.4691227624394142, 0.5348836579730315}},
	{[2]float64{0.7194636804651924, 0.7739181372872587}, [2]float64{1.0047673146863223, 1.1290957308789733}},
	{[2]float64{0.8399643568016886, 0.8849572011779039}, [2]float64{1.373551612770524, 1.56842484682093}},
	{[2]float64{0.9252476684711531, 0.9555779667223961}, [2]float64{1.7206051885589628, 2.0095720109169806}},
	{[2]float64{0.9247055079875132, 0.9550008265295736}, [2]float64{1.8699486396747371, 2.230054120055894}},
}

var defaultSeries = []float64{0.5, 0.8, 0.2, 0.9, 0.1}

func TestLSTMCell_Default(t *testing.T) {
	cell := NewDefaultLSTMCell()

	assert.Equal(t, 1, cell.InputSize())
	assert.Equal(t, 2, cell.HiddenSize())
	assert.Equal(t, []float64{0, 0}, cell.Hidden())
	assert.Equal(t, []float64{0, 0}, cell.Cell())
	assert.Len(t, cell.Parameters(), 8)
	assert.Equal(t, "LSTMCell(input_size=1, hidden_size=2)", cell.String())
}

func TestLSTMCell_StepValues(t *testing.T) {
	cell := NewDefaultLSTMCell()

	for i, x := range defaultSeries {
		want := defaultCellTrace[i]

		y, err := cell.StepScalar(x)
		require.NoError(t, err)
		assert.InDelta(t, want.hidden[0], y, 1e-12, "step %d output", i)
		assert.InDeltaSlice(t, want.hidden[:], cell.Hidden(), 1e-12, "step %d hidden", i)
		assert.InDeltaSlice(t, want.cell[:], cell.Cell(), 1e-12, "step %d cell", i)
	}
}

func TestLSTMCell_Run(t *testing.T) {
	outputs, err := NewDefaultLSTMCell().Run(defaultSeries)
	require.NoError(t, err)
	require.Len(t, outputs, len(defaultSeries))

	for i, y := range outputs {
		assert.InDelta(t, defaultCellTrace[i].hidden[0], y, 1e-12)
	}
}

func TestLSTMCell_Stateful(t *testing.T) {
	cell := NewDefaultLSTMCell()

	first, err := cell.StepScalar(0.5)
	require.NoError(t, err)
	second, err := cell.StepScalar(0.5)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	cell.Reset()
	assert.Equal(t, []float64{0, 0}, cell.Hidden())
	assert.Equal(t, []float64{0, 0}, cell.Cell())

	again, err := cell.StepScalar(0.5)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestLSTMCell_Deterministic(t *testing.T) {
	a := NewDefaultLSTMCell()
	b := NewDefaultLSTMCell()

	ya, err := a.Run(defaultSeries)
	require.NoError(t, err)
	yb, err := b.Run(defaultSeries)
	require.NoError(t, err)
	assert.Equal(t, ya, yb)

	r1, err := NewLSTMCell(LSTMConfig{InputSize: 3, HiddenSize: 4, Seed: 8})
	require.NoError(t, err)
	r2, err := NewLSTMCell(LSTMConfig{InputSize: 3, HiddenSize: 4, Seed: 8})
	require.NoError(t, err)

	h1, err := r1.Step([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	h2, err := r2.Step([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestLSTMCell_StateBounded(t *testing.T) {
	cell, err := NewLSTMCell(LSTMConfig{InputSize: 2, HiddenSize: 5, Seed: 4})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		h, err := cell.Step([]float64{float64(i), -float64(i)})
		require.NoError(t, err)
		require.Len(t, h, 5)
		for _, v := range h {
			// |h| = |o * tanh(c)| < 1
			assert.Less(t, v, 1.0)
			assert.Greater(t, v, -1.0)
		}
	}
}

func TestLSTMCell_HiddenIsCopy(t *testing.T) {
	cell := NewDefaultLSTMCell()
	h, err := cell.Step([]float64{0.5})
	require.NoError(t, err)

	h[0] = 42
	assert.InDelta(t, defaultCellTrace[0].hidden[0], cell.Hidden()[0], 1e-12)
}

func TestLSTMCell_WeightsAreCopied(t *testing.T) {
	w := DefaultLSTMWeights()
	cell, err := NewLSTMCellWithWeights(w)
	require.NoError(t, err)

	w.Forget.Data()[0] = 100
	w.OutputBias.Data()[1] = -100

	h, err := cell.Step([]float64{defaultSeries[0]})
	require.NoError(t, err)
	assert.InDelta(t, defaultCellTrace[0].hidden[0], h[0], 1e-12)
	assert.InDelta(t, defaultCellTrace[0].hidden[1], h[1], 1e-12)
}

func TestLSTMCell_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		_, err := NewLSTMCell(LSTMConfig{InputSize: 0, HiddenSize: 2})
		assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))

		_, err = NewLSTMCell(LSTMConfig{InputSize: 1, HiddenSize: -1})
		assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))
	})

	t.Run("wrong input length", func(t *testing.T) {
		cell := NewDefaultLSTMCell()
		_, err := cell.Step([]float64{1, 2})
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

		// A failed step leaves state untouched.
		assert.Equal(t, []float64{0, 0}, cell.Hidden())
	})

	t.Run("scalar on vector cell", func(t *testing.T) {
		cell, err := NewLSTMCell(LSTMConfig{InputSize: 2, HiddenSize: 2, Seed: 1})
		require.NoError(t, err)
		_, err = cell.Run([]float64{0.1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
		assert.Contains(t, err.Error(), "step 0")
	})

	t.Run("missing weights", func(t *testing.T) {
		w := DefaultLSTMWeights()
		w.Output = nil
		_, err := NewLSTMCellWithWeights(w)
		assert.True(t, errors.Is(err, tensor.ErrInvalidConfig))
	})

	t.Run("square recurrent weights", func(t *testing.T) {
		// 2x2 gate matrices leave no room for the input row.
		w := DefaultLSTMWeights()
		w.Forget = rows(t, [][]float64{{0.1, 0.2}, {0.3, 0.4}})
		_, err := NewLSTMCellWithWeights(w)
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
	})

	t.Run("mismatched gate", func(t *testing.T) {
		w := DefaultLSTMWeights()
		w.Candidate = rows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}})
		_, err := NewLSTMCellWithWeights(w)
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

		w = DefaultLSTMWeights()
		w.OutputBias = vec(t, 1, 2, 3)
		_, err = NewLSTMCellWithWeights(w)
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
	})
}
