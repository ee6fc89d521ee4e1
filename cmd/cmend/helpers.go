package main

import (
	"fmt"
	"path/filepath"

	"github.com/rvelez/cmend/internal/output"
	"github.com/rvelez/cmend/internal/scanner"
	"github.com/rvelez/cmend/pkg/analyzer"
	"github.com/rvelez/cmend/pkg/config"
	"github.com/rvelez/cmend/pkg/engine"
	"github.com/rvelez/cmend/pkg/transform"
	"github.com/urfave/cli/v2"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the config named by --config, or searches the standard
// locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// newFormatter builds the output formatter from the global flags.
func newFormatter(c *cli.Context) (*output.Formatter, error) {
	colored := !c.Bool("no-color")
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), colored)
}

// collectFiles expands the positional paths into dialect source files.
func collectFiles(cfg *config.Config, paths []string) ([]string, error) {
	scan := scanner.NewScanner(cfg)

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}

		if ok, err := scan.ScanFile(absPath); err == nil && ok {
			files = append(files, absPath)
			continue
		}

		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// newEngine builds an engine from the config's checks, limits, and
// transform sections.
func newEngine(cfg *config.Config) *engine.Engine {
	aopts := analyzer.DefaultOptions()
	aopts.Brackets = cfg.Checks.Brackets
	aopts.Control = cfg.Checks.Control
	aopts.Semicolons = cfg.Checks.Semicolons
	aopts.Functions = cfg.Checks.Functions
	aopts.Returns = cfg.Checks.Returns
	aopts.Conditions = cfg.Checks.Conditions
	aopts.Variables = cfg.Checks.Variables
	aopts.Unreachable = cfg.Checks.Unreachable
	aopts.Expressions = cfg.Checks.Expressions
	aopts.FormatStrings = cfg.Checks.FormatStrings
	aopts.ArrayBounds = cfg.Checks.ArrayBounds
	aopts.InfiniteLoops = cfg.Checks.InfiniteLoops
	if cfg.Limits.LoopLookahead > 0 {
		aopts.LoopLookahead = cfg.Limits.LoopLookahead
	}
	if cfg.Limits.ArrayLookahead > 0 {
		aopts.ArrayLookahead = cfg.Limits.ArrayLookahead
	}
	if cfg.Limits.BodySearch > 0 {
		aopts.BodySearchLines = cfg.Limits.BodySearch
	}

	topts := transform.DefaultOptions()
	topts.Rename = cfg.Transform.Rename
	if cfg.Transform.IndentWidth > 0 {
		topts.IndentWidth = cfg.Transform.IndentWidth
	}
	topts.LoopLookahead = aopts.LoopLookahead
	topts.ArrayLookahead = aopts.ArrayLookahead

	return engine.NewWithOptions(engine.Options{Analyzer: aopts, Transform: topts})
}
