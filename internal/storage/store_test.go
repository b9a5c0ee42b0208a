package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/experiment"
)

func lockdown(t *testing.T) *experiment.Result {
	t.Helper()
	cfg := config.GetPreset("sir", "lockdown")
	if cfg == nil {
		t.Fatal("missing sir lockdown preset")
	}
	res, err := experiment.New("lockdown", cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	res := lockdown(t)

	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "sir" || meta.Name != "lockdown" || meta.Integrator != "dopri5" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if len(meta.Sections) != res.Timeline.Len() {
		t.Errorf("expected %d sections, got %d", res.Timeline.Len(), len(meta.Sections))
	}
	if meta.Metrics["peak_infected"] != res.Metrics["peak_infected"] {
		t.Errorf("metrics not preserved: %v", meta.Metrics)
	}

	path, err := st.LoadPath(runID)
	if err != nil {
		t.Fatalf("load path failed: %v", err)
	}
	if path.Len() != res.Path.Len() || path.Dim() != res.Path.Dim() {
		t.Fatalf("expected %dx%d path, got %dx%d", res.Path.Len(), res.Path.Dim(), path.Len(), path.Dim())
	}
	for k := range path.Values {
		for i := range path.Times {
			if math.Abs(path.Values[k][i]-res.Path.Values[k][i]) > 1e-15 {
				t.Fatalf("component %d sample %d changed on round trip", k, i)
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(lockdown(t)); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bad"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad", "metadata.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad", "path.csv"), []byte("t,S\n0,x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	st := New(dir)
	if _, err := st.Load("bad"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
	if _, err := st.LoadPath("bad"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	res := lockdown(t)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, res); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Model != "sir" || got.Steps != res.Path.Len() || len(got.Values) != 3 {
		t.Errorf("unexpected export %s/%d/%d", got.Model, got.Steps, len(got.Values))
	}
}
