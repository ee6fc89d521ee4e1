package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rvelez/cmend/internal/fileproc"
	"github.com/rvelez/cmend/internal/output"
	"github.com/rvelez/cmend/internal/progress"
	"github.com/rvelez/cmend/pkg/models"
	"github.com/urfave/cli/v2"
)

func refactorCmd() *cli.Command {
	return &cli.Command{
		Name:      "refactor",
		Aliases:   []string{"fix"},
		Usage:     "Analyze sources and rewrite them with the detected defects repaired",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Rewrite files in place",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write the transformed source to this file (single input only)",
			},
			&cli.BoolFlag{
				Name:  "report",
				Usage: "Print the defect and transformation report instead of the source",
			},
		},
		Action: runRefactor,
	}
}

// fileRefactor pairs a path with its transformation result.
type fileRefactor struct {
	Path   string                 `json:"path"`
	Result *models.RefactorResult `json:"result"`
}

func runRefactor(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	files, err := collectFiles(cfg, getPaths(c))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	write := c.Bool("write")
	outPath := c.String("out")
	if len(files) > 1 && !write {
		return fmt.Errorf("refactoring %d files requires --write", len(files))
	}
	if outPath != "" && len(files) > 1 {
		return fmt.Errorf("--out only applies to a single input file")
	}

	eng := newEngine(cfg)

	tracker := progress.NewTracker("Refactoring...", len(files))
	results, procErrs := fileproc.ForEachFileCollectErrorsWithProgress(files, func(path string) (fileRefactor, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileRefactor{}, err
		}

		result, err := eng.AnalyzeAndTransform(string(data))
		if err != nil {
			return fileRefactor{}, err
		}

		if write {
			info, err := os.Stat(path)
			if err != nil {
				return fileRefactor{}, err
			}
			if err := os.WriteFile(path, []byte(result.Source), info.Mode().Perm()); err != nil {
				return fileRefactor{}, err
			}
		}
		return fileRefactor{Path: path, Result: result}, nil
	}, tracker.Tick)
	tracker.FinishSuccess()

	if procErrs != nil {
		for _, pe := range procErrs.Errors {
			color.Red("%v", pe)
		}
		return fmt.Errorf("%d files failed", len(procErrs.Errors))
	}

	if len(files) == 1 && !write {
		result := results[0].Result
		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(result.Source), 0644); err != nil {
				return err
			}
		} else if !c.Bool("report") {
			if strings.TrimSpace(result.Source) == "" {
				color.Yellow("Nothing to show: every line was removed")
			} else {
				fmt.Print(result.Source)
			}
			return nil
		}
	}

	if c.Bool("report") || write {
		formatter, err := newFormatter(c)
		if err != nil {
			return err
		}
		defer formatter.Close()

		for _, fr := range results {
			if err := formatter.Output(output.RefactorReport(displayPath(fr.Path), fr.Result, formatter.Colored())); err != nil {
				return err
			}
		}
	}
	return nil
}
