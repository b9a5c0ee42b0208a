package storage

import (
	"encoding/json"
	"io"

	"github.com/jmcastelo/SIRview/internal/experiment"
)

// ExportData is the JSON form of a run, trajectory included.
type ExportData struct {
	RunMetadata
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	Values [][]float64 `json:"values"`
}

func ExportJSON(w io.Writer, res *experiment.Result) error {
	meta, err := Metadata(res)
	if err != nil {
		return err
	}
	data := ExportData{
		RunMetadata: meta,
		Steps:       res.Path.Len(),
		Times:       res.Path.Times,
		Values:      res.Path.Values,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
