package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/tractionsim/internal/metrics"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

type WheelSample struct {
	Slip            float64 `json:"slip"`
	AngularVelocity float64 `json:"angular_velocity"`
	BrakeTorque     float64 `json:"brake_torque"`
	DriveTorque     float64 `json:"drive_torque"`
}

type Sample struct {
	Time        float64       `json:"time"`
	LinearSpeed float64       `json:"linear_speed"`
	Wheels      []WheelSample `json:"wheels"`
}

// Telemetry is a time series of vehicle samples with a fixed wheel count.
type Telemetry struct {
	WheelCount int      `json:"wheel_count"`
	Samples    []Sample `json:"samples"`
}

func (t *Telemetry) Len() int { return len(t.Samples) }

func (t *Telemetry) Append(s vehicle.Snapshot, time float64) {
	if t.WheelCount == 0 {
		t.WheelCount = len(s.Wheels)
	}
	ws := make([]WheelSample, t.WheelCount)
	for i := range ws {
		if i >= len(s.Wheels) {
			break
		}
		ws[i] = WheelSample{
			AngularVelocity: s.Wheels[i].AngularVelocity,
			BrakeTorque:     s.Wheels[i].BrakeTorque,
			DriveTorque:     s.Wheels[i].DriveTorque,
		}
		if i < len(s.Slips) {
			ws[i].Slip = s.Slips[i]
		}
	}
	t.Samples = append(t.Samples, Sample{Time: time, LinearSpeed: s.LinearSpeed, Wheels: ws})
}

func (t *Telemetry) Times() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Time
	}
	return out
}

// Series extracts one channel: "linear_speed", "mean_slip", or a per-wheel
// channel ("slip", "angular_velocity", "brake_torque", "drive_torque") for
// the given wheel.
func (t *Telemetry) Series(channel string, wheel int) ([]float64, error) {
	out := make([]float64, len(t.Samples))
	switch channel {
	case "linear_speed":
		for i, s := range t.Samples {
			out[i] = s.LinearSpeed
		}
		return out, nil
	case "mean_slip":
		for i, s := range t.Samples {
			sum := 0.0
			for _, w := range s.Wheels {
				sum += w.Slip
			}
			if len(s.Wheels) > 0 {
				out[i] = sum / float64(len(s.Wheels))
			}
		}
		return out, nil
	}

	if wheel < 0 || wheel >= t.WheelCount {
		return nil, fmt.Errorf("wheel %d out of range [0, %d)", wheel, t.WheelCount)
	}
	var pick func(WheelSample) float64
	switch channel {
	case "slip":
		pick = func(w WheelSample) float64 { return w.Slip }
	case "angular_velocity":
		pick = func(w WheelSample) float64 { return w.AngularVelocity }
	case "brake_torque":
		pick = func(w WheelSample) float64 { return w.BrakeTorque }
	case "drive_torque":
		pick = func(w WheelSample) float64 { return w.DriveTorque }
	default:
		return nil, fmt.Errorf("unknown channel %q", channel)
	}
	for i, s := range t.Samples {
		out[i] = pick(s.Wheels[wheel])
	}
	return out, nil
}

// Summaries holds run-level statistics for the body speed and mean slip.
func (t *Telemetry) Summaries() map[string]metrics.Summary {
	speed, _ := t.Series("linear_speed", 0)
	slip, _ := t.Series("mean_slip", 0)
	return map[string]metrics.Summary{
		"linear_speed": metrics.Summarize(speed),
		"mean_slip":    metrics.Summarize(slip),
	}
}

var wheelColumns = []string{"slip", "omega", "brake", "drive"}

func (t *Telemetry) header() []string {
	h := []string{"time", "linear_speed"}
	for i := 0; i < t.WheelCount; i++ {
		for _, c := range wheelColumns {
			h = append(h, fmt.Sprintf("w%d_%s", i, c))
		}
	}
	return h
}

func (t *Telemetry) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header()); err != nil {
		return err
	}
	for _, s := range t.Samples {
		row := []string{formatFloat(s.Time), formatFloat(s.LinearSpeed)}
		for _, ws := range s.Wheels {
			row = append(row,
				formatFloat(ws.Slip),
				formatFloat(ws.AngularVelocity),
				formatFloat(ws.BrakeTorque),
				formatFloat(ws.DriveTorque))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadTelemetryCSV(r *csv.Reader) (*Telemetry, error) {
	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Telemetry{}, nil
		}
		return nil, err
	}
	if len(head) < 2 || head[0] != "time" || (len(head)-2)%len(wheelColumns) != 0 {
		return nil, fmt.Errorf("unexpected telemetry header: %s", strings.Join(head, ","))
	}

	tel := &Telemetry{WheelCount: (len(head) - 2) / len(wheelColumns)}
	r.FieldsPerRecord = len(head)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return tel, nil
		}
		if err != nil {
			return nil, err
		}

		vals := make([]float64, len(rec))
		for i, field := range rec {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("telemetry column %s: %w", head[i], err)
			}
		}
		s := Sample{Time: vals[0], LinearSpeed: vals[1], Wheels: make([]WheelSample, tel.WheelCount)}
		for w := range s.Wheels {
			base := 2 + w*len(wheelColumns)
			s.Wheels[w] = WheelSample{
				Slip:            vals[base],
				AngularVelocity: vals[base+1],
				BrakeTorque:     vals[base+2],
				DriveTorque:     vals[base+3],
			}
		}
		tel.Samples = append(tel.Samples, s)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
