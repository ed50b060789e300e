package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/semcouple/internal/config"
	"github.com/standardbeagle/semcouple/internal/coupling"
	"github.com/standardbeagle/semcouple/internal/debug"
	"github.com/standardbeagle/semcouple/internal/mcp"
	"github.com/standardbeagle/semcouple/internal/ranking"
	"github.com/standardbeagle/semcouple/internal/watch"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errMissingTarget = errors.New("missing <target> argument")

func requireTarget(c *cli.Context) (string, error) {
	if c.NArg() < 1 || c.Args().First() == "" {
		return "", errMissingTarget
	}
	return c.Args().First(), nil
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}

func rankCommand(c *cli.Context) error {
	target, err := requireTarget(c)
	if err != nil {
		return err
	}
	format := c.String("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	k := cfg.Output.TopK
	if c.IsSet("top") {
		k = c.Int("top")
	}
	if k < 0 {
		return fmt.Errorf("--top must be non-negative, got %d", k)
	}

	model, err := coupling.Load(c.Context, cfg)
	if err != nil {
		return err
	}
	if err := printRanking(c.App.Writer, model, target, k, format); err != nil {
		return err
	}

	if !c.Bool("watch") {
		return nil
	}
	return watchRanking(c.Context, c.App.Writer, c.App.ErrWriter, cfg, target, k, format)
}

func printRanking(w io.Writer, model *coupling.Model, target string, k int, format string) error {
	if format == formatText {
		ranked, err := model.Rank(target)
		if err != nil {
			return err
		}
		return ranking.FormatTopK(w, ranked, k)
	}

	top, err := model.RankSimilar(target, k)
	if err != nil {
		return err
	}
	return writeStructured(w, format, top)
}

// watchRanking rebuilds the whole model after every debounced batch of
// changes and prints the ranking again. Rebuild failures are reported and
// watching continues.
func watchRanking(ctx context.Context, w, errW io.Writer, cfg *config.Config, target string, k int, format string) error {
	watcher, err := watch.New(watch.Options{
		Scan:     coupling.ScanOptions(cfg),
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(errW, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Project.Root)
	return watcher.Run(ctx, func(ctx context.Context, changed []string) error {
		debug.Log("MAIN", "rebuilding after %d changes\n", len(changed))
		model, err := coupling.Load(ctx, cfg)
		if err == nil {
			fmt.Fprintln(w)
			err = printRanking(w, model, target, k, format)
		}
		if err != nil {
			fmt.Fprintf(errW, "Rebuild failed: %v\n", err)
		}
		return err
	})
}

func dumpCommand(c *cli.Context) error {
	target, err := requireTarget(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	dir := c.String("out")
	if dir == "" {
		dir = cfg.Output.DumpDir
	}

	model, err := coupling.Load(c.Context, cfg)
	if err != nil {
		return err
	}
	if err := model.Dump(dir, target); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d terms for %s to %s\n", model.Dictionary().Len(), target, dir)
	return nil
}

func termsCommand(c *cli.Context) error {
	target, err := requireTarget(c)
	if err != nil {
		return err
	}
	format := c.String("format")
	if err := checkFormat(format); err != nil {
		return err
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	model, err := coupling.Load(c.Context, cfg)
	if err != nil {
		return err
	}
	terms, err := model.TopTerms(target, c.Int("count"))
	if err != nil {
		return err
	}

	if format != formatText {
		return writeStructured(c.App.Writer, format, terms)
	}
	for _, t := range terms {
		if _, err := fmt.Fprintf(c.App.Writer, "%s\t%g\t%.4f\n", t.Term, t.Count, t.Weight); err != nil {
			return err
		}
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	// stdout carries the protocol; debug output goes to a file or nowhere
	if c.Bool("verbose") {
		logPath, err := debug.InitDebugLogFile("")
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "Debug log: %s\n", logPath)
	} else {
		debug.SetMCPMode(true)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	model, err := coupling.Load(c.Context, cfg)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, model, nil)
	if err != nil {
		return err
	}

	if err := server.Start(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
