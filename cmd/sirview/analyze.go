package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/jmcastelo/SIRview/internal/analysis"
	"github.com/jmcastelo/SIRview/internal/automation"
	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/experiment"
	"github.com/jmcastelo/SIRview/internal/optim"
	"github.com/jmcastelo/SIRview/internal/storage"
)

func defaultEnsemble() (*dynamo.Ensemble, error) {
	integ, err := experiment.NewRegistry().GetIntegrator(config.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return dynamo.NewEnsemble(integ, 0), nil
}

func phasePortrait(cmd *cobra.Command, args []string) error {
	v, err := experiment.NewRegistry().GetModel(args[0])
	if err != nil {
		return err
	}
	x, err := compartmentIndex(v, xAxis)
	if err != nil {
		return err
	}
	y, err := compartmentIndex(v, yAxis)
	if err != nil {
		return err
	}
	ens, err := defaultEnsemble()
	if err != nil {
		return err
	}

	portrait, err := analysis.GeneratePhasePortrait(cmd.Context(), ens, analysis.PortraitSpec{
		Variant: v,
		Params:  params,
		XIndex:  x,
		YIndex:  y,
		GridDim: gridDim,
		TimeEnd: phaseEnd,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s phase portrait, %s against %s, %d curves\n\n", v, yAxis, xAxis, len(portrait.Curves))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 30))
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	v, err := experiment.NewRegistry().GetModel(args[0])
	if err != nil {
		return err
	}
	p, err := paramIndex(v, param)
	if err != nil {
		return err
	}
	k, err := compartmentIndex(v, component)
	if err != nil {
		return err
	}
	ens, err := defaultEnsemble()
	if err != nil {
		return err
	}

	points, err := analysis.ParameterSweep(cmd.Context(), ens, analysis.SweepSpec{
		Variant: v,
		Params:  params,
		Param:   p,
		Min:     paramMin,
		Max:     sweepMax,
		Steps:   steps,
		Index:   k,
		TimeEnd: sweepEnd,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK %s\tFINAL %s\n", param, component, component)
	peaks := make([]float64, len(points))
	for i, pt := range points {
		fmt.Fprintf(w, "%.4g\t%.6f\t%.6f\n", pt.Param, pt.Peak, pt.Final)
		peaks[i] = pt.Peak
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(peaks,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("peak %s for %s in [%g, %g]", component, param, paramMin, sweepMax))))
	return nil
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      cfg,
		Spread:    spread,
		NumTrials: trials,
		Seed:      seed,
		Workers:   workers,
	}, logger)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range names {
		s, err := automation.MonteCarloStats(results, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", s.Metric, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func tuneSection(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	res, err := experiment.New(name, cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	sec, err := res.Timeline.Section(section)
	if err != nil {
		return err
	}
	p, err := paramIndex(res.Variant, param)
	if err != nil {
		return err
	}

	ranges := make([][]float64, len(sec.Params))
	for i, v := range sec.Params {
		ranges[i] = []float64{v}
	}
	ranges[p] = optim.Linspace(paramMin, tuneMax, steps)

	g := optim.NewGridSearch(section, ranges, logger)
	best, value, err := g.Search(cmd.Context(), cfg, metric)
	if err != nil {
		return err
	}

	fmt.Printf("section %d: %s = %g minimizes %s\n", section, param, best[p], metric)
	fmt.Printf("  %s: %.6f (was %.6f at %s = %g)\n", metric, value, res.Metrics[metric], param, sec.Params[p])
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	results, err := automation.RunBatch(cmd.Context(), b, filepath.Dir(args[0]), logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveRun {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tSECTIONS\tPEAK\tPEAK TIME\tFINAL S\tRUN ID")
	for _, res := range results {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.6f\t%.2f\t%.6f\t%s\n",
			res.Name,
			res.Variant.Key(),
			res.Timeline.Len(),
			res.Metrics["peak_infected"],
			res.Metrics["peak_time"],
			res.Metrics["final_susceptible"],
			runID,
		)
	}
	return w.Flush()
}
