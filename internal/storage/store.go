package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/experiment"
)

var ErrCorrupt = errors.New("storage: corrupt run")

// Store keeps scenario runs as one directory each: metadata.json with the
// sections and metrics, path.csv with the followed trajectory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SectionRecord struct {
	Start  float64   `json:"start"`
	End    float64   `json:"end"`
	Params []float64 `json:"params"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Variables  []string           `json:"variables"`
	Sections   []SectionRecord    `json:"sections"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Metadata describes res without its trajectory.
func Metadata(res *experiment.Result) (RunMetadata, error) {
	meta := RunMetadata{
		Name:       res.Name,
		Model:      res.Variant.Key(),
		Integrator: res.Integrator,
		Timestamp:  time.Now(),
		Variables:  res.Variant.Variables(),
		Metrics:    res.Metrics,
	}
	for i := 0; i < res.Timeline.Len(); i++ {
		sec, err := res.Timeline.Section(i)
		if err != nil {
			return RunMetadata{}, err
		}
		meta.Sections = append(meta.Sections, SectionRecord{Start: sec.Start, End: sec.End, Params: sec.Params})
	}
	return meta, nil
}

// Save writes res under a fresh run id and returns the id.
func (s *Store) Save(res *experiment.Result) (string, error) {
	meta, err := Metadata(res)
	if err != nil {
		return "", err
	}
	meta.ID = fmt.Sprintf("%s_%d", res.Variant.Key(), meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "path.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writePath(csvFile, meta.Variables, res.Path); err != nil {
		return "", err
	}
	return meta.ID, csvFile.Sync()
}

func writePath(f *os.File, variables []string, path dynamo.Series) error {
	w := csv.NewWriter(f)

	header := append([]string{"t"}, variables...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, t := range path.Times {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for k := range path.Values {
			row = append(row, strconv.FormatFloat(path.Values[k][i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run. Directories without valid metadata are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", runID, ErrCorrupt, err)
	}
	return &meta, nil
}

// LoadPath reads back the followed trajectory of a run.
func (s *Store) LoadPath(runID string) (dynamo.Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "path.csv"))
	if err != nil {
		return dynamo.Series{}, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return dynamo.Series{}, fmt.Errorf("%s: %w: %v", runID, ErrCorrupt, err)
	}
	if len(records) < 2 {
		return dynamo.Series{}, nil
	}

	dim := len(records[0]) - 1
	out := dynamo.Series{
		Times:  make([]float64, 0, len(records)-1),
		Values: make([][]float64, dim),
	}
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return dynamo.Series{}, fmt.Errorf("%s row %d: %w: %v", runID, i+1, ErrCorrupt, err)
			}
			vals[j] = v
		}
		out.Times = append(out.Times, vals[0])
		for k := 0; k < dim; k++ {
			out.Values[k] = append(out.Values[k], vals[k+1])
		}
	}
	return out, nil
}
