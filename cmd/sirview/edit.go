package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/experiment"
	"github.com/jmcastelo/SIRview/internal/tui"
	"github.com/jmcastelo/SIRview/internal/viz"
)

func editScenario(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	// stderr belongs to the editor while it runs
	editLog := logger
	if logFile == "" {
		editLog = zap.NewNop()
	}

	tl, err := experiment.New(name, cfg, editLog).Build()
	if err != nil {
		return err
	}
	if err := tui.Run(tl, tui.Options{
		Resolution: cfg.SliderResolution,
		Theme:      viz.GetTheme(theme),
		Logger:     editLog,
	}); err != nil {
		return err
	}

	fmt.Printf("%s: %d sections\n", name, tl.Len())
	for i, r := range tl.Ranges() {
		sec, err := tl.Section(i)
		if err != nil {
			return err
		}
		fmt.Printf("  %d [%g, %g] %v\n", i, r.Start, r.End, sec.Params)
	}
	return nil
}
