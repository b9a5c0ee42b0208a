package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/experiment"
)

var ErrBatchRun = errors.New("automation: invalid batch run")

// Batch is a list of scenarios run together.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun names exactly one scenario source: a preset of a model, a
// scenario file relative to the batch file, or an inline scenario.
type BatchRun struct {
	Name     string    `yaml:"name"`
	Model    string    `yaml:"model"`
	Preset   string    `yaml:"preset"`
	Config   string    `yaml:"config"`
	Scenario yaml.Node `yaml:"scenario"`
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Resolve turns every run into a validated scenario. Relative config paths
// are taken from dir.
func (b *Batch) Resolve(dir string) ([]string, []*config.Config, error) {
	names := make([]string, len(b.Runs))
	cfgs := make([]*config.Config, len(b.Runs))

	for i, run := range b.Runs {
		cfg, err := run.resolve(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		names[i] = run.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("%s-%d", cfg.Model, i+1)
		}
		cfgs[i] = cfg
	}
	return names, cfgs, nil
}

func (r BatchRun) resolve(dir string) (*config.Config, error) {
	sources := 0
	for _, set := range []bool{r.Preset != "", r.Config != "", r.Scenario.Kind != 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("%w: need exactly one of preset, config or scenario", ErrBatchRun)
	}

	switch {
	case r.Preset != "":
		cfg := config.GetPreset(r.Model, r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: no preset %q for model %q", ErrBatchRun, r.Preset, r.Model)
		}
		return cfg, nil
	case r.Config != "":
		path := r.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return config.Load(path)
	default:
		// Inline scenarios start from the defaults like a scenario file does.
		cfg := config.DefaultConfig()
		if err := r.Scenario.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: inline scenario: %v", ErrBatchRun, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
}

// RunBatch resolves b against dir and runs every scenario concurrently.
func RunBatch(ctx context.Context, b *Batch, dir string, logger *zap.Logger) ([]*experiment.Result, error) {
	names, cfgs, err := b.Resolve(dir)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("running batch", zap.String("batch", b.Name), zap.Int("runs", len(cfgs)))
	}
	return experiment.RunAll(ctx, names, cfgs, logger)
}
