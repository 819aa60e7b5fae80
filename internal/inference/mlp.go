package inference

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tractionsim/internal/control"
)

type denseLayer struct {
	w    *mat.Dense
	b    *mat.VecDense
	relu bool
}

// MLP is a loaded, immutable network. Predict allocates its own buffers, so
// one MLP can serve several controllers.
type MLP struct {
	name   string
	output string
	layers []denseLayer
	in     *Scaler
	out    *Scaler
}

func NewMLP(m *Model) (*MLP, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	net := &MLP{
		name:   m.Name,
		output: m.Output,
		in:     m.InputScaler,
		out:    m.OutputScaler,
		layers: make([]denseLayer, len(m.Layers)),
	}
	if net.output == "" {
		net.output = OutputTensor
	}
	for i, l := range m.Layers {
		flat := make([]float64, 0, l.Out()*l.In())
		for _, row := range l.Weights {
			flat = append(flat, row...)
		}
		bias := make([]float64, len(l.Bias))
		copy(bias, l.Bias)
		net.layers[i] = denseLayer{
			w:    mat.NewDense(l.Out(), l.In(), flat),
			b:    mat.NewVecDense(len(bias), bias),
			relu: l.Activation == ActivationReLU,
		}
	}
	return net, nil
}

// Load reads a model file and builds its network.
func Load(path string) (*MLP, error) {
	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewMLP(m)
}

// Loader adapts Load to a control.Loader.
func Loader(path string) control.Loader {
	return func() (control.Backend, error) {
		return Load(path)
	}
}

func (n *MLP) Name() string { return n.name }

func (n *MLP) Predict(f control.Features) (control.Output, error) {
	x := make([]float64, len(f))
	for i, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: lane %d is %v", ErrNonFiniteInput, i, v)
		}
		x[i] = v
	}
	if n.in != nil {
		scale(n.in, x)
	}

	h := mat.NewVecDense(len(x), x)
	for _, l := range n.layers {
		r, _ := l.w.Dims()
		next := mat.NewVecDense(r, nil)
		next.MulVec(l.w, h)
		next.AddVec(next, l.b)
		if l.relu {
			for i := 0; i < r; i++ {
				if next.AtVec(i) < 0 {
					next.SetVec(i, 0)
				}
			}
		}
		h = next
	}

	y := make([]float64, h.Len())
	for i := range y {
		y[i] = h.AtVec(i)
	}
	if n.out != nil {
		unscale(n.out, y)
	}

	if n.output == OutputPair {
		return control.Pair{Drive: y[0], Brake: y[1]}, nil
	}
	return control.Tensor{Shape: []int{1, len(y)}, Data: y}, nil
}

func scale(s *Scaler, x []float64) {
	for i := range x {
		span := s.Max[i] - s.Min[i]
		if span == 0 {
			span = 1
		}
		x[i] = (x[i] - s.Min[i]) / span
	}
}

func unscale(s *Scaler, y []float64) {
	for i := range y {
		span := s.Max[i] - s.Min[i]
		if span == 0 {
			span = 1
		}
		y[i] = y[i]*span + s.Min[i]
	}
}
