package canbus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.einride.tech/can"

	"github.com/san-kum/tractionsim/internal/storage"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

const DefaultInterface = "vcan0"

var ErrLogLine = errors.New("canbus: malformed candump line")

// Writer emits candump-format lines, "(seconds) iface ID#DATA". It satisfies
// sim.Observer; the first write error stops output and is kept for Err.
type Writer struct {
	w     *bufio.Writer
	iface string
	every int
	seen  int
	err   error
}

func NewWriter(w io.Writer, iface string, every int) *Writer {
	if iface == "" {
		iface = DefaultInterface
	}
	if every < 1 {
		every = 1
	}
	return &Writer{w: bufio.NewWriter(w), iface: iface, every: every}
}

func (c *Writer) OnStep(s vehicle.Snapshot, t float64) {
	c.seen++
	if c.err != nil || (c.seen-1)%c.every != 0 {
		return
	}
	var tel storage.Telemetry
	tel.Append(s, t)
	c.WriteSample(tel.Samples[0])
}

func (c *Writer) WriteSample(s storage.Sample) {
	for _, f := range Frames(s) {
		c.WriteFrame(s.Time, f)
	}
}

func (c *Writer) WriteFrame(t float64, f can.Frame) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintf(c.w, "(%.6f) %s %s\n", t, c.iface, f.String())
}

func (c *Writer) Flush() error {
	if c.err != nil {
		return c.err
	}
	c.err = c.w.Flush()
	return c.err
}

func (c *Writer) Err() error { return c.err }

type Entry struct {
	Time  float64
	Iface string
	Frame can.Frame
}

func ReadLog(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		e, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

func parseLine(text string) (Entry, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 || !strings.HasPrefix(fields[0], "(") || !strings.HasSuffix(fields[0], ")") {
		return Entry{}, fmt.Errorf("%w: %q", ErrLogLine, text)
	}
	t, err := strconv.ParseFloat(strings.Trim(fields[0], "()"), 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: timestamp: %v", ErrLogLine, err)
	}
	var f can.Frame
	if err := f.UnmarshalString(fields[2]); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrLogLine, err)
	}
	return Entry{Time: t, Iface: fields[1], Frame: f}, nil
}

// Decode rebuilds telemetry from a candump log. Each body frame starts a new
// sample; wheel frames fill the current one. Unknown ids are skipped.
func Decode(entries []Entry) (*storage.Telemetry, error) {
	tel := &storage.Telemetry{}
	var cur *storage.Sample
	for _, e := range entries {
		if e.Frame.ID == BodyFrameID {
			b, err := DecodeBody(e.Frame)
			if err != nil {
				return nil, err
			}
			if tel.WheelCount == 0 {
				tel.WheelCount = b.WheelCount
			}
			tel.Samples = append(tel.Samples, storage.Sample{
				Time:        b.Time,
				LinearSpeed: b.LinearSpeed,
				Wheels:      make([]storage.WheelSample, tel.WheelCount),
			})
			cur = &tel.Samples[len(tel.Samples)-1]
			continue
		}
		if e.Frame.ID < WheelFrameBase || e.Frame.ID >= WheelFrameBase+MaxWheels || cur == nil {
			continue
		}
		i, w, err := DecodeWheel(e.Frame)
		if err != nil {
			return nil, err
		}
		if i < len(cur.Wheels) {
			cur.Wheels[i] = w
		}
	}
	return tel, nil
}
