package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tractionsim/internal/storage"
)

// ASCII plots one channel in the terminal. Per-wheel channels draw every
// wheel as its own series.
func ASCII(tel *storage.Telemetry, channel string, width, height int) (string, error) {
	if tel == nil || tel.Len() == 0 {
		return "", ErrNoTelemetry
	}
	ls, err := lines(tel, channel)
	if err != nil {
		return "", err
	}

	idx := decimate(tel.Len(), width)
	data := make([][]float64, len(ls))
	for i, l := range ls {
		data[i] = make([]float64, len(idx))
		for k, j := range idx {
			data[i][k] = l.ys[j]
		}
	}

	caption := Label(channel)
	if len(ls) > 1 {
		caption = fmt.Sprintf("%s, %d wheels", caption, len(ls))
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	}
	if len(ls) > 1 {
		colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Yellow, asciigraph.Green, asciigraph.Red}
		series := make([]asciigraph.AnsiColor, len(ls))
		for i := range series {
			series[i] = colors[i%len(colors)]
		}
		opts = append(opts, asciigraph.SeriesColors(series...))
	}
	return asciigraph.PlotMany(data, opts...), nil
}
