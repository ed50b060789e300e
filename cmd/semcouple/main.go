package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	"github.com/standardbeagle/semcouple/internal/config"
	"github.com/standardbeagle/semcouple/internal/debug"
	"github.com/standardbeagle/semcouple/internal/version"

	"github.com/urfave/cli/v2"
)

var Version = version.Version

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	rootFlag := c.String("root")

	// If root is specified and config path is default, look for config in root directory
	if rootFlag != "" && configPath == config.ConfigFileName {
		configPath = filepath.Join(rootFlag, config.ConfigFileName)
	}

	// The default config file is optional; an explicit one is not
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !c.IsSet("config") {
		configPath = ""
	}

	cfg, err := config.LoadWithRoot(configPath, rootFlag)
	if err != nil {
		if configPath == "" {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	// Apply CLI flag overrides
	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp builds the CLI. Command output goes to out.
func newApp(out io.Writer) *cli.App {
	var cpuProfile *os.File

	return &cli.App{
		Name:                   "semcouple",
		Usage:                  "Rank source files by semantic coupling to a target file",
		Version:                Version,
		Writer:                 out,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.ConfigFileName,
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Corpus root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include '**/*.c' --include 'src/**/*.h')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/testdata/**')",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log pipeline progress to stderr",
			},
			&cli.StringFlag{
				Name:   "profile-cpu",
				Usage:  "Write CPU profile to file (e.g., --profile-cpu cpu.prof)",
				Hidden: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "rank",
				Usage:     "Print the files most semantically coupled to a target",
				ArgsUsage: "<target>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Number of results (defaults to output.top_k)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json or yaml",
						Value:   formatText,
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Rebuild and print again whenever the corpus changes",
					},
				},
				Action: rankCommand,
			},
			{
				Name:      "dump",
				Usage:     "Write idfs.txt, invertedIndex.txt, tf.txt and tfidf.txt for a target",
				ArgsUsage: "<target>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory (defaults to output.dump_dir)",
					},
				},
				Action: dumpCommand,
			},
			{
				Name:      "terms",
				Usage:     "Print a target's highest-weighted TF-IDF terms",
				ArgsUsage: "<target>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of terms (0 for all)",
						Value:   20,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json or yaml",
						Value:   formatText,
					},
				},
				Action: termsCommand,
			},
			{
				Name:   "serve",
				Usage:  "Run the MCP server on stdio",
				Action: serveCommand,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				debug.EnableDebug = "true"
				debug.SetDebugOutput(c.App.ErrWriter)
			}

			if path := c.String("profile-cpu"); path != "" {
				debug.Log("MAIN", "Starting CPU profiling to %s\n", path)
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(f); err != nil {
					f.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				cpuProfile = f
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if cpuProfile != nil {
				pprof.StopCPUProfile()
				cpuProfile.Close()
				cpuProfile = nil
			}
			return debug.CloseDebugLog()
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout)
	app.ErrWriter = os.Stderr

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
