package dataset

import (
	"fmt"
	"strconv"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/inference"
)

// Header is the column order of every CSV file this package writes.
var Header = []string{
	"wheel_index",
	"slip_ratio",
	"angular_velocity",
	"linear_speed",
	"current_brake_torque",
	"current_drive_torque",
	"desired_brake_torque",
	"desired_drive_torque",
}

type Row struct {
	WheelIndex         int
	SlipRatio          float64
	AngularVelocity    float64
	LinearSpeed        float64
	CurrentBrakeTorque float64
	CurrentDriveTorque float64
	DesiredBrakeTorque float64
	DesiredDriveTorque float64
}

func (r Row) Record() []string {
	return []string{
		strconv.Itoa(r.WheelIndex),
		formatFloat(r.SlipRatio),
		formatFloat(r.AngularVelocity),
		formatFloat(r.LinearSpeed),
		formatFloat(r.CurrentBrakeTorque),
		formatFloat(r.CurrentDriveTorque),
		formatFloat(r.DesiredBrakeTorque),
		formatFloat(r.DesiredDriveTorque),
	}
}

func ParseRecord(rec []string) (Row, error) {
	if len(rec) != len(Header) {
		return Row{}, fmt.Errorf("%w: %d fields, want %d", ErrBadRecord, len(rec), len(Header))
	}
	idx, err := strconv.Atoi(rec[0])
	if err != nil {
		return Row{}, fmt.Errorf("%w: wheel_index: %v", ErrBadRecord, err)
	}
	var vals [7]float64
	for i := range vals {
		vals[i], err = strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return Row{}, fmt.Errorf("%w: %s: %v", ErrBadRecord, Header[i+1], err)
		}
	}
	return Row{
		WheelIndex:         idx,
		SlipRatio:          vals[0],
		AngularVelocity:    vals[1],
		LinearSpeed:        vals[2],
		CurrentBrakeTorque: vals[3],
		CurrentDriveTorque: vals[4],
		DesiredBrakeTorque: vals[5],
		DesiredDriveTorque: vals[6],
	}, nil
}

// Sample turns the row into a training pair for the learned controller.
func (r Row) Sample() inference.Sample {
	return inference.Sample{
		Features: control.NewFeatures(r.SlipRatio, r.AngularVelocity, r.LinearSpeed,
			r.CurrentBrakeTorque, r.CurrentDriveTorque),
		Drive: r.DesiredDriveTorque,
		Brake: r.DesiredBrakeTorque,
	}
}

func Samples(rows []Row) []inference.Sample {
	out := make([]inference.Sample, len(rows))
	for i, r := range rows {
		out[i] = r.Sample()
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
