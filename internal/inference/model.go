package inference

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/san-kum/tractionsim/internal/control"
)

const (
	ActivationReLU   = "relu"
	ActivationLinear = "linear"

	OutputTensor = "tensor"
	OutputPair   = "pair"
)

type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

func (l Layer) In() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

func (l Layer) Out() int { return len(l.Weights) }

// Scaler maps x to (x-min)/(max-min). Lanes with max == min pass through
// shifted by min.
type Scaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

type Model struct {
	Name         string  `json:"name"`
	Output       string  `json:"output"`
	Layers       []Layer `json:"layers"`
	InputScaler  *Scaler `json:"input_scaler,omitempty"`
	OutputScaler *Scaler `json:"output_scaler,omitempty"`
}

func (m *Model) Validate() error {
	if len(m.Layers) == 0 {
		return ErrEmptyModel
	}
	if m.Layers[0].In() != control.FeatureCount {
		return fmt.Errorf("%w: first layer takes %d inputs, want %d", ErrLayerShape, m.Layers[0].In(), control.FeatureCount)
	}
	for i, l := range m.Layers {
		for r, row := range l.Weights {
			if len(row) != l.In() {
				return fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrLayerShape, i, r, len(row), l.In())
			}
		}
		if len(l.Bias) != l.Out() {
			return fmt.Errorf("%w: layer %d bias has %d entries, want %d", ErrLayerShape, i, len(l.Bias), l.Out())
		}
		if i > 0 && l.In() != m.Layers[i-1].Out() {
			return fmt.Errorf("%w: layer %d takes %d inputs, previous layer gives %d", ErrLayerShape, i, l.In(), m.Layers[i-1].Out())
		}
		switch l.Activation {
		case ActivationReLU, ActivationLinear, "":
		default:
			return fmt.Errorf("%w: %q in layer %d", ErrActivation, l.Activation, i)
		}
	}
	last := m.Layers[len(m.Layers)-1].Out()
	if last < 2 {
		return fmt.Errorf("%w: last layer gives %d outputs, want at least 2", ErrLayerShape, last)
	}
	if err := m.InputScaler.check(control.FeatureCount); err != nil {
		return fmt.Errorf("input scaler: %w", err)
	}
	if err := m.OutputScaler.check(last); err != nil {
		return fmt.Errorf("output scaler: %w", err)
	}
	switch m.Output {
	case OutputTensor, OutputPair, "":
	default:
		return fmt.Errorf("%w: %q", ErrOutputKind, m.Output)
	}
	return nil
}

func (s *Scaler) check(width int) error {
	if s == nil {
		return nil
	}
	if len(s.Min) != width || len(s.Max) != width {
		return fmt.Errorf("%w: min %d max %d, want %d", ErrScalerShape, len(s.Min), len(s.Max), width)
	}
	return nil
}

func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func SaveModel(path string, m *Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
