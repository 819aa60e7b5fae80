package canbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"go.einride.tech/can"

	"github.com/san-kum/tractionsim/internal/storage"
)

const (
	BodyFrameID    uint32 = 0x300
	WheelFrameBase uint32 = 0x310
	MaxWheels             = 16

	bodyLength  = 7
	wheelLength = 8
)

// Signal scales: physical = raw * factor.
const (
	speedFactor  = 0.01   // m/s
	timeFactor   = 0.001  // s
	slipFactor   = 0.0001 // ratio
	omegaFactor  = 0.01   // rad/s
	torqueFactor = 0.1    // N·m
)

var (
	ErrWheelIndex  = errors.New("canbus: wheel index out of range")
	ErrFrameID     = errors.New("canbus: unknown frame id")
	ErrFrameLength = errors.New("canbus: unexpected frame length")
)

type Body struct {
	LinearSpeed float64
	Time        float64
	WheelCount  int
}

func EncodeBody(b Body) can.Frame {
	f := can.Frame{ID: BodyFrameID, Length: bodyLength}
	binary.LittleEndian.PutUint16(f.Data[0:2], toUnsigned16(b.LinearSpeed, speedFactor))
	binary.LittleEndian.PutUint32(f.Data[2:6], toUnsigned32(b.Time, timeFactor))
	f.Data[6] = uint8(min(max(b.WheelCount, 0), math.MaxUint8))
	return f
}

func DecodeBody(f can.Frame) (Body, error) {
	if f.ID != BodyFrameID {
		return Body{}, fmt.Errorf("%w: 0x%X", ErrFrameID, f.ID)
	}
	if f.Length != bodyLength {
		return Body{}, fmt.Errorf("%w: body frame has %d bytes", ErrFrameLength, f.Length)
	}
	return Body{
		LinearSpeed: float64(binary.LittleEndian.Uint16(f.Data[0:2])) * speedFactor,
		Time:        float64(binary.LittleEndian.Uint32(f.Data[2:6])) * timeFactor,
		WheelCount:  int(f.Data[6]),
	}, nil
}

func EncodeWheel(i int, w storage.WheelSample) (can.Frame, error) {
	if i < 0 || i >= MaxWheels {
		return can.Frame{}, fmt.Errorf("%w: %d", ErrWheelIndex, i)
	}
	f := can.Frame{ID: WheelFrameBase + uint32(i), Length: wheelLength}
	binary.LittleEndian.PutUint16(f.Data[0:2], uint16(toSigned16(w.Slip, slipFactor)))
	binary.LittleEndian.PutUint16(f.Data[2:4], toUnsigned16(w.AngularVelocity, omegaFactor))
	binary.LittleEndian.PutUint16(f.Data[4:6], toUnsigned16(w.BrakeTorque, torqueFactor))
	binary.LittleEndian.PutUint16(f.Data[6:8], toUnsigned16(w.DriveTorque, torqueFactor))
	return f, nil
}

func DecodeWheel(f can.Frame) (int, storage.WheelSample, error) {
	if f.ID < WheelFrameBase || f.ID >= WheelFrameBase+MaxWheels {
		return 0, storage.WheelSample{}, fmt.Errorf("%w: 0x%X", ErrFrameID, f.ID)
	}
	if f.Length != wheelLength {
		return 0, storage.WheelSample{}, fmt.Errorf("%w: wheel frame has %d bytes", ErrFrameLength, f.Length)
	}
	return int(f.ID - WheelFrameBase), storage.WheelSample{
		Slip:            float64(int16(binary.LittleEndian.Uint16(f.Data[0:2]))) * slipFactor,
		AngularVelocity: float64(binary.LittleEndian.Uint16(f.Data[2:4])) * omegaFactor,
		BrakeTorque:     float64(binary.LittleEndian.Uint16(f.Data[4:6])) * torqueFactor,
		DriveTorque:     float64(binary.LittleEndian.Uint16(f.Data[6:8])) * torqueFactor,
	}, nil
}

// Frames encodes one telemetry sample. Wheels past MaxWheels are dropped.
func Frames(s storage.Sample) []can.Frame {
	n := min(len(s.Wheels), MaxWheels)
	out := make([]can.Frame, 0, n+1)
	out = append(out, EncodeBody(Body{LinearSpeed: s.LinearSpeed, Time: s.Time, WheelCount: n}))
	for i := 0; i < n; i++ {
		f, _ := EncodeWheel(i, s.Wheels[i])
		out = append(out, f)
	}
	return out
}

func toUnsigned16(v, factor float64) uint16 {
	raw := math.Round(v / factor)
	if math.IsNaN(raw) || raw < 0 {
		return 0
	}
	if raw > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(raw)
}

func toUnsigned32(v, factor float64) uint32 {
	raw := math.Round(v / factor)
	if math.IsNaN(raw) || raw < 0 {
		return 0
	}
	if raw > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(raw)
}

func toSigned16(v, factor float64) int16 {
	raw := math.Round(v / factor)
	switch {
	case math.IsNaN(raw):
		return 0
	case raw > math.MaxInt16:
		return math.MaxInt16
	case raw < math.MinInt16:
		return math.MinInt16
	}
	return int16(raw)
}
