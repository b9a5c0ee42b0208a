package config

func scenario(model string, sections ...SectionConfig) *Config {
	cfg := DefaultConfig()
	cfg.Model = model
	cfg.Sections = sections
	return cfg
}

var Presets = map[string]map[string]*Config{
	"sir": {
		"baseline": scenario("sir",
			SectionConfig{Start: 0, End: 50, Params: []float64{2.5}}),
		"lockdown": scenario("sir",
			SectionConfig{Start: 0, End: 60, Params: []float64{2.5}},
			SectionConfig{Start: 8, End: 60, Params: []float64{0.8}}),
		"waves": scenario("sir",
			SectionConfig{Start: 0, End: 40, Params: []float64{2.5}},
			SectionConfig{Start: 8, End: 40, Params: []float64{0.7}},
			SectionConfig{Start: 25, End: 100, Params: []float64{2.0}}),
		"subcritical": scenario("sir",
			SectionConfig{Start: 0, End: 50, Params: []float64{0.5}}),
	},
	"sirs": {
		"endemic": scenario("sirs",
			SectionConfig{Start: 0, End: 200, Params: []float64{2.5, 0.05}}),
	},
	"seir": {
		"baseline": scenario("seir",
			SectionConfig{Start: 0, End: 150, Params: []float64{2.5, 0.2}}),
		"lockdown": scenario("seir",
			SectionConfig{Start: 0, End: 150, Params: []float64{2.5, 0.2}},
			SectionConfig{Start: 30, End: 150, Params: []float64{0.9, 0.2}}),
	},
	"sira": {
		"silent": scenario("sira",
			SectionConfig{Start: 0, End: 60, Params: []float64{2.5, 0.5}}),
	},
	"sir-vd": {
		"endemic": scenario("sir-vd",
			SectionConfig{Start: 0, End: 300, Params: []float64{3, 0.02}}),
	},
}

// GetPreset returns a copy of a named scenario, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
