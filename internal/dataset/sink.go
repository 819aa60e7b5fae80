package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

type Sink interface {
	Write(rows ...Row) error
	Close() error
}

// Episode describes the randomised scenario a block of rows came from.
type Episode struct {
	ID           int64
	MuPeak       float64
	InitialSpeed float64
	DesiredSlip  float64
	Steps        int
}

// EpisodeRecorder is implemented by sinks that keep episode metadata.
type EpisodeRecorder interface {
	StartEpisode(e Episode) (int64, error)
}

// Create opens a sink chosen by the file extension.
func Create(path string) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CreateCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, path)
	}
}

// ReadFile reads every row from a CSV file or SQLite database.
func ReadFile(ctx context.Context, path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Rows(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, path)
	}
}
