package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/experiment"
)

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tCOMPARTMENTS\tPARAMETERS")

	registry := experiment.NewRegistry()
	for _, key := range registry.ListModels() {
		v, err := registry.GetModel(key)
		if err != nil {
			return err
		}
		ps := make([]string, 0, v.ParamCount())
		for _, p := range v.Parameters() {
			ps = append(ps, fmt.Sprintf("%s=%g [%g, %g]", p.Name, p.Default, p.Min, p.Max))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, v, strings.Join(v.Variables(), " "), strings.Join(ps, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nintegrators: %s\n", strings.Join(registry.ListIntegrators(), ", "))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := compartment.Keys()
	if len(args) == 1 {
		models = args[:1]
	}

	found := false
	for _, m := range models {
		presets := config.ListPresets(m)
		if len(presets) == 0 {
			continue
		}
		found = true
		fmt.Printf("presets for %s:\n", m)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	if !found {
		fmt.Printf("no presets for model: %s\n", strings.Join(models, ", "))
	}
	return nil
}

func paramIndex(v compartment.Variant, name string) (int, error) {
	for i, p := range v.Parameters() {
		if p.Name == name {
			return i, nil
		}
	}
	names := make([]string, 0, v.ParamCount())
	for _, p := range v.Parameters() {
		names = append(names, p.Name)
	}
	return 0, fmt.Errorf("%s has no parameter %q (have %s)", v, name, strings.Join(names, ", "))
}

func compartmentIndex(v compartment.Variant, name string) (int, error) {
	k := v.Index(name)
	if k < 0 {
		return 0, fmt.Errorf("%s has no compartment %q (have %s)", v, name, strings.Join(v.Variables(), ", "))
	}
	return k, nil
}
