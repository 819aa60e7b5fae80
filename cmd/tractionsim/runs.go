package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/tractionsim/internal/canbus"
	"github.com/san-kum/tractionsim/internal/report"
	"github.com/san-kum/tractionsim/internal/storage"
)

var (
	plotChannels []string
	reportDir    string
	exportFormat string
	exportOut    string
	decodeLog    bool
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tSTEPS\tCTRL\tMU\tSLIP RMS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%s\t%.2f\t%.4f\n",
			shortID(run.ID),
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration.Seconds(),
			run.Steps,
			run.Controller.Kind,
			run.Vehicle.MuPeak,
			run.Metrics["slip_rms_error"],
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func loadRun(id string) (*storage.RunMetadata, *storage.Telemetry, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	tel, err := st.LoadTelemetry(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	return meta, tel, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tel, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", tel.Len())

	for _, ch := range plotChannels {
		graph, err := report.ASCII(tel, ch, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func reportRun(cmd *cobra.Command, args []string) error {
	meta, tel, err := loadRun(args[0])
	if err != nil {
		return err
	}

	dir := reportDir
	if dir == "" {
		dir = storage.New(dataDir).Dir(meta.ID)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	files, err := report.WritePNGs(dir, tel, meta.Controller.DesiredSlip)
	if err != nil {
		return err
	}

	htmlPath := filepath.Join(dir, "report.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteHTML(f, *meta, tel); err != nil {
		return err
	}

	for _, p := range append(files, htmlPath) {
		fmt.Println(p)
	}
	return nil
}

// output returns stdout or the named file, and a close func for it.
func output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, tel, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := output(exportOut)
	if err != nil {
		return err
	}
	defer closeOut()

	switch strings.ToLower(exportFormat) {
	case "json":
		return storage.ExportJSON(w, *meta, tel)
	case "csv":
		return tel.WriteCSV(w)
	default:
		return fmt.Errorf("unknown export format: %s (csv, json)", exportFormat)
	}
}

func candump(cmd *cobra.Command, args []string) error {
	if decodeLog {
		return decodeCandump(args[0])
	}

	_, tel, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := output(exportOut)
	if err != nil {
		return err
	}
	defer closeOut()

	cw := canbus.NewWriter(w, canIface, 1)
	for _, s := range tel.Samples {
		cw.WriteSample(s)
	}
	return cw.Flush()
}

func decodeCandump(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := canbus.ReadLog(f)
	if err != nil {
		return err
	}
	tel, err := canbus.Decode(entries)
	if err != nil {
		return err
	}
	fmt.Printf("frames: %d  samples: %d  wheels: %d\n\n", len(entries), tel.Len(), tel.WheelCount)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tMEAN\tSTD\tMIN\tMAX\tP95")
	sums := tel.Summaries()
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := sums[name]
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", name, s.Mean, s.StdDev, s.Min, s.Max, s.P95)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if exportOut != "" {
		out, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer out.Close()
		return tel.WriteCSV(out)
	}
	return nil
}
