package report

import (
	"fmt"

	"github.com/san-kum/tractionsim/internal/storage"
)

// Channel names accepted by the report functions.
const (
	ChannelSpeed = "linear_speed"
	ChannelSlip  = "slip"
	ChannelOmega = "angular_velocity"
	ChannelBrake = "brake_torque"
	ChannelDrive = "drive_torque"
	ChannelMean  = "mean_slip"
)

var channelLabels = map[string]string{
	ChannelSpeed: "Speed (m/s)",
	ChannelSlip:  "Slip ratio",
	ChannelOmega: "Angular velocity (rad/s)",
	ChannelBrake: "Brake torque (N·m)",
	ChannelDrive: "Drive torque (N·m)",
	ChannelMean:  "Mean slip ratio",
}

func Label(channel string) string {
	if l, ok := channelLabels[channel]; ok {
		return l
	}
	return channel
}

func perWheel(channel string) bool {
	return channel != ChannelSpeed && channel != ChannelMean
}

type line struct {
	name string
	ys   []float64
}

// lines returns one line per wheel for per-wheel channels, else one line.
func lines(tel *storage.Telemetry, channel string) ([]line, error) {
	if !perWheel(channel) {
		ys, err := tel.Series(channel, 0)
		if err != nil {
			return nil, err
		}
		return []line{{name: channel, ys: ys}}, nil
	}
	out := make([]line, 0, tel.WheelCount)
	for w := 0; w < tel.WheelCount; w++ {
		ys, err := tel.Series(channel, w)
		if err != nil {
			return nil, err
		}
		out = append(out, line{name: fmt.Sprintf("wheel %d", w), ys: ys})
	}
	return out, nil
}

// decimate keeps at most n evenly spaced indices of a series of length total.
func decimate(total, n int) []int {
	if n <= 0 || total <= n {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i * (total - 1) / (n - 1)
	}
	return idx
}
