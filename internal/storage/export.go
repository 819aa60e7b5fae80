package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run       RunMetadata `json:"run"`
	Telemetry *Telemetry  `json:"telemetry"`
}

// ExportJSON writes a run and its telemetry as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, tel *Telemetry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Telemetry: tel})
}
