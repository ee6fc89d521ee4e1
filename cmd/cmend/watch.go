package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rvelez/cmend/internal/output"
	"github.com/rvelez/cmend/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch a directory and re-analyze files as they change",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 500 * time.Millisecond,
				Usage: "Wait this long after the last write before re-analyzing",
			},
		},
		Action: runWatch,
	}
}

func runWatch(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	path := "."
	if c.Args().Len() > 0 {
		path = c.Args().First()
	}

	eng := newEngine(cfg)
	colored := !c.Bool("no-color")
	format := output.ParseFormat(c.String("format"))

	watcher, err := watch.NewWatcher(path, cfg, c.Duration("debounce"))
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.SetCallback(func(changed string) {
		data, err := os.ReadFile(changed)
		if err != nil {
			color.Red("read %s: %v", changed, err)
			return
		}

		result, err := eng.Analyze(string(data))
		if err != nil {
			color.Red("analyze %s: %v", changed, err)
			return
		}

		formatter, err := output.NewFormatter(format, "", colored)
		if err != nil {
			return
		}
		defer formatter.Close()
		_ = formatter.Output(output.DefectReport(displayPath(changed), result, formatter.Colored()))
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
