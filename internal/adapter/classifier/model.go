package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Layer is a dense layer. Weights are indexed [input][output].
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"` // relu, softmax, linear

	w *mat.Dense    // inputs x outputs, set by Validate
	b *mat.VecDense // outputs, set by Validate
}

// matrices returns the layer's weight matrix and bias vector, building them
// when Validate has not cached them.
func (l *Layer) matrices() (*mat.Dense, *mat.VecDense) {
	if l.w != nil {
		return l.w, l.b
	}
	return denseOf(l.Weights, len(l.Biases)), mat.NewVecDense(len(l.Biases), l.Biases)
}

func denseOf(rows [][]float64, cols int) *mat.Dense {
	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data)
}

// Model is a feed-forward network exported by the training pipeline.
// It is read-only once loaded.
type Model struct {
	ID         string  `json:"id"`
	InputWidth int     `json:"inputWidth"`
	Layers     []Layer `json:"layers"`
}

// Validate checks that the layer shapes chain from InputWidth to one output
// per category.
func (m *Model) Validate() error {
	if m.InputWidth <= 0 {
		return errors.New("model: inputWidth must be positive")
	}
	if len(m.Layers) == 0 {
		return errors.New("model: no layers")
	}
	width := m.InputWidth
	for i := range m.Layers {
		l := &m.Layers[i]
		if len(l.Weights) != width {
			return fmt.Errorf("model: layer %d expects %d inputs, got %d", i, width, len(l.Weights))
		}
		out := len(l.Biases)
		if out == 0 {
			return fmt.Errorf("model: layer %d has no outputs", i)
		}
		for j, row := range l.Weights {
			if len(row) != out {
				return fmt.Errorf("model: layer %d row %d has %d outputs, want %d", i, j, len(row), out)
			}
		}
		switch l.Activation {
		case "relu", "softmax", "linear", "":
		default:
			return fmt.Errorf("model: layer %d has unknown activation %q", i, l.Activation)
		}
		width = out
	}
	if width != len(Categories) {
		return fmt.Errorf("model: %d outputs, want %d categories", width, len(Categories))
	}
	for i := range m.Layers {
		l := &m.Layers[i]
		l.w = denseOf(l.Weights, len(l.Biases))
		l.b = mat.NewVecDense(len(l.Biases), l.Biases)
	}
	return nil
}

// Predict runs a forward pass. The input length must equal InputWidth.
func (m *Model) Predict(input []float64) []float64 {
	x := mat.NewVecDense(len(input), append([]float64(nil), input...))
	for i := range m.Layers {
		w, b := m.Layers[i].matrices()
		y := mat.NewVecDense(b.Len(), nil)
		y.MulVec(w.T(), x)
		y.AddVec(y, b)
		activate(m.Layers[i].Activation, y.RawVector().Data)
		x = y
	}
	return mat.Col(nil, 0, x)
}

func activate(name string, v []float64) {
	switch name {
	case "relu":
		for i := range v {
			v[i] = math.Max(0, v[i])
		}
	case "softmax":
		maxV := math.Inf(-1)
		for _, x := range v {
			maxV = math.Max(maxV, x)
		}
		var sum float64
		for i := range v {
			v[i] = math.Exp(v[i] - maxV)
			sum += v[i]
		}
		for i := range v {
			v[i] /= sum
		}
	}
}

// argmax returns the index of the highest score; the lowest index wins ties.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
