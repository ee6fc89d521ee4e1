package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/rvelez/cmend/internal/cache"
	"github.com/rvelez/cmend/internal/fileproc"
	"github.com/rvelez/cmend/internal/output"
	"github.com/rvelez/cmend/internal/progress"
	"github.com/rvelez/cmend/pkg/config"
	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/stats"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"check"},
		Usage:     "Detect defects without modifying sources",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fail-on",
				Usage: "Exit non-zero when defects at or above this severity exist: critical, error, warning, info",
			},
		},
		Action: runAnalyze,
	}
}

// fileAnalysis pairs a path with its analysis result.
type fileAnalysis struct {
	Path   string                 `json:"path"`
	Result *models.AnalysisResult `json:"result"`
}

func runAnalyze(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	paths := getPaths(c)
	if len(paths) == 1 && paths[0] == "-" {
		return analyzeStdin(c, cfg)
	}

	files, err := collectFiles(cfg, paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled && !c.Bool("no-cache"))
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	eng := newEngine(cfg)

	tracker := progress.NewTracker("Analyzing...", len(files))
	results, procErrs := fileproc.ForEachFileCollectErrorsWithProgress(files, func(path string) (fileAnalysis, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileAnalysis{}, err
		}

		hash := cache.HashBytes(data)
		if cached, ok := store.GetAnalysis(path, hash); ok {
			return fileAnalysis{Path: path, Result: cached}, nil
		}

		result, err := eng.Analyze(string(data))
		if err != nil {
			return fileAnalysis{}, err
		}
		_ = store.SetAnalysis(path, hash, result)
		return fileAnalysis{Path: path, Result: result}, nil
	}, tracker.Tick)
	tracker.FinishSuccess()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := renderAnalyses(c, formatter, results); err != nil {
		return err
	}

	if procErrs != nil {
		for _, pe := range procErrs.Errors {
			formatter.Error("%v", pe)
		}
		return fmt.Errorf("%d files failed", len(procErrs.Errors))
	}

	if threshold := c.String("fail-on"); threshold != "" {
		if n := countAtOrAbove(results, models.Severity(threshold)); n > 0 {
			return fmt.Errorf("%d defects at or above %s severity", n, threshold)
		}
	}
	return nil
}

func renderAnalyses(c *cli.Context, formatter *output.Formatter, results []fileAnalysis) error {
	colored := formatter.Colored()

	if len(results) == 1 {
		return formatter.Output(output.DefectReport(displayPath(results[0].Path), results[0].Result, colored))
	}

	report := &output.Report{Title: "Analysis", Data: results}

	var rows [][]string
	counts := make([]float64, 0, len(results))
	lines := make([]float64, 0, len(results))
	total := 0
	for _, fa := range results {
		rows = append(rows, []string{
			displayPath(fa.Path),
			fmt.Sprintf("%d", fa.Result.Lines),
			fmt.Sprintf("%d", fa.Result.Summary.TotalDefects),
			fmt.Sprintf("%d", fa.Result.Count(models.SeverityCritical)),
		})
		counts = append(counts, float64(fa.Result.Summary.TotalDefects))
		lines = append(lines, float64(fa.Result.Lines))
		total += fa.Result.Summary.TotalDefects
	}
	report.Sections = append(report.Sections, output.NewTable(
		"Files",
		[]string{"File", "Lines", "Defects", "Critical"},
		rows,
		[]string{"", "", fmt.Sprintf("Total: %d", total), ""},
		results,
	))

	if c.Bool("verbose") {
		sorted := append([]float64(nil), counts...)
		sort.Float64s(sorted)
		dist := stats.Describe(sorted)
		trend := stats.DefectTrend(counts)
		report.Sections = append(report.Sections, &output.Section{
			Title: "Distribution",
			Content: fmt.Sprintf(
				"mean %.1f, stddev %.1f, p50 %.0f, p90 %.0f, max %.0f\nsize correlation %.2f, trend slope %.2f",
				dist.Mean, dist.StdDev, dist.P50, dist.P90, dist.Max,
				stats.DensityCorrelation(lines, counts), trend.Slope),
			Data: dist,
		})
	}

	return formatter.Output(report)
}

func analyzeStdin(c *cli.Context, cfg *config.Config) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	result, err := newEngine(cfg).Analyze(string(data))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(output.DefectReport("stdin", result, formatter.Colored())); err != nil {
		return err
	}

	if threshold := c.String("fail-on"); threshold != "" {
		if n := countAtOrAbove([]fileAnalysis{{Path: "stdin", Result: result}}, models.Severity(threshold)); n > 0 {
			return fmt.Errorf("%d defects at or above %s severity", n, threshold)
		}
	}
	return nil
}

func countAtOrAbove(results []fileAnalysis, threshold models.Severity) int {
	n := 0
	for _, fa := range results {
		for _, d := range fa.Result.Defects {
			if d.Severity.Weight() >= threshold.Weight() {
				n++
			}
		}
	}
	return n
}

func displayPath(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !startsWithParent(rel) {
			return rel
		}
	}
	return path
}

func startsWithParent(rel string) bool {
	return rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator))
}
