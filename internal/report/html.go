package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/tractionsim/internal/storage"
)

// maxHTMLPoints bounds the points per series embedded in the page.
const maxHTMLPoints = 2000

// WriteHTML renders one page with a line chart per channel and a bar chart of
// the run metrics.
func WriteHTML(w io.Writer, meta storage.RunMetadata, tel *storage.Telemetry) error {
	if tel == nil || tel.Len() == 0 {
		return ErrNoTelemetry
	}

	page := components.NewPage()
	page.PageTitle = "tractionsim " + meta.ID

	idx := decimate(tel.Len(), maxHTMLPoints)
	times := tel.Times()
	xs := make([]string, len(idx))
	for i, j := range idx {
		xs[i] = strconv.FormatFloat(times[j], 'f', 2, 64)
	}

	subtitle := fmt.Sprintf("scenario=%s controller=%s mu=%.2f target slip=%.3f",
		meta.Scenario, meta.Controller.Kind, meta.Vehicle.MuPeak, meta.Controller.DesiredSlip)

	for _, ch := range []string{ChannelSpeed, ChannelMean, ChannelSlip, ChannelOmega, ChannelBrake, ChannelDrive} {
		ls, err := lines(tel, ch)
		if err != nil {
			return err
		}
		chart := charts.NewLine()
		chart.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
			charts.WithTitleOpts(opts.Title{Title: Label(ch), Subtitle: subtitle}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(ls) > 1), Right: "10%"}),
			charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
			charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		)
		chart.SetXAxis(xs)
		for _, l := range ls {
			data := make([]opts.LineData, len(idx))
			for i, j := range idx {
				data[i] = opts.LineData{Value: l.ys[j]}
			}
			chart.AddSeries(l.name, data,
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		}
		page.AddCharts(chart)
	}

	if len(meta.Metrics) > 0 {
		page.AddCharts(metricsBar(meta))
	}
	return page.Render(w)
}

func metricsBar(meta storage.RunMetadata) *charts.Bar {
	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]opts.BarData, len(names))
	for i, name := range names {
		data[i] = opts.BarData{Value: meta.Metrics[name]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Run metrics"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("value", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}
