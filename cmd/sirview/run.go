package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/experiment"
	"github.com/jmcastelo/SIRview/internal/export"
	"github.com/jmcastelo/SIRview/internal/storage"
	"github.com/jmcastelo/SIRview/internal/timeline"
	"github.com/jmcastelo/SIRview/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := experiment.New(name, cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("scenario integrated", zap.String("scenario", name), zap.Duration("elapsed", time.Since(start)))

	if jsonOut {
		return storage.ExportJSON(os.Stdout, res)
	}

	k := res.Variant.Index(component)
	if k < 0 {
		return fmt.Errorf("%s has no compartment %q (have %s)", res.Variant, component, strings.Join(res.Variant.Variables(), ", "))
	}

	if svgFile != "" {
		if err := writeSVG(svgFile, res.Timeline, k); err != nil {
			return err
		}
	}

	fmt.Printf("%s (%s, %d sections)\n\n", name, res.Variant, res.Timeline.Len())
	if err := printSections(res); err != nil {
		return err
	}

	graph, err := viz.PlotTimeline(res.Timeline, viz.PlotOptions{Component: k, ShowRight: showRight})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(graph)
	fmt.Println()
	printMetrics(res.Metrics)

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(res)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func writeSVG(path string, tl *timeline.Timeline, component int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.TimelineToSVG(f, tl, component, 800, 400)
}

func printSections(res *experiment.Result) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"SECTION", "START", "END"}
	for _, p := range res.Variant.Parameters() {
		header = append(header, p.Name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i := 0; i < res.Timeline.Len(); i++ {
		sec, err := res.Timeline.Section(i)
		if err != nil {
			return err
		}
		row := []string{fmt.Sprintf("%d (%s)", i, viz.ColorName(i)), fmt.Sprintf("%g", sec.Start), fmt.Sprintf("%g", sec.End)}
		for _, v := range sec.Params {
			row = append(row, fmt.Sprintf("%g", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func printMetrics(ms map[string]float64) {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %-20s %.6f\n", name, ms[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMODEL\tTIME\tSECTIONS\tINTEG\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%.4f\n",
			run.ID,
			run.Name,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Sections),
			run.Integrator,
			run.Metrics["peak_infected"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	path, err := st.LoadPath(runID)
	if err != nil {
		return err
	}
	if path.Empty() {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", path.Len())

	graph, err := viz.PlotSeries(path, meta.Variables, viz.PlotOptions{Caption: meta.Name})
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}
