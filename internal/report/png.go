package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/tractionsim/internal/storage"
)

var ErrNoTelemetry = errors.New("report: run has no telemetry")

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// PNGCharts are written by WritePNGs, one file per channel.
var PNGCharts = []string{ChannelSpeed, ChannelSlip, ChannelBrake, ChannelDrive}

// WritePNGs saves one line plot per channel into dir and returns the paths.
// A dashed reference line marks targetSlip on the slip chart.
func WritePNGs(dir string, tel *storage.Telemetry, targetSlip float64) ([]string, error) {
	if tel == nil || tel.Len() == 0 {
		return nil, ErrNoTelemetry
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	paths := make([]string, 0, len(PNGCharts))
	for _, ch := range PNGCharts {
		p, err := linePlot(tel, ch)
		if err != nil {
			return nil, err
		}
		if ch == ChannelSlip {
			if err := addReference(p, tel, targetSlip); err != nil {
				return nil, err
			}
		}
		path := filepath.Join(dir, ch+".png")
		if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func linePlot(tel *storage.Telemetry, channel string) (*plot.Plot, error) {
	ls, err := lines(tel, channel)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = Label(channel)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = Label(channel)
	p.Add(plotter.NewGrid())

	times := tel.Times()
	for i, l := range ls {
		pts := make(plotter.XYs, len(l.ys))
		for j, y := range l.ys {
			pts[j] = plotter.XY{X: times[j], Y: y}
		}
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		ln.Color = palette[i%len(palette)]
		ln.Width = vg.Points(1)
		p.Add(ln)
		if len(ls) > 1 {
			p.Legend.Add(l.name, ln)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

func addReference(p *plot.Plot, tel *storage.Telemetry, y float64) error {
	times := tel.Times()
	ref, err := plotter.NewLine(plotter.XYs{{X: times[0], Y: y}, {X: times[len(times)-1], Y: y}})
	if err != nil {
		return err
	}
	ref.Color = color.Gray{Y: 0x60}
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ref)
	p.Legend.Add("target", ref)
	return nil
}
