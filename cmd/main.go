package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	acceptor "github.com/mbasic-dev/compat-acceptor"
	"github.com/mbasic-dev/compat-acceptor/exitcodes"
	"github.com/mbasic-dev/compat-acceptor/flags"
	"github.com/mbasic-dev/compat-acceptor/registry"
	"github.com/mbasic-dev/compat-acceptor/service"
	"github.com/mbasic-dev/compat-acceptor/types"
)

var (
	Version   = "v0.3.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "compat-acceptor"
	app.Usage = "Golden-master compatibility harness for the Altair BASIC reimplementation"
	app.Description = "compat-acceptor runs candidate programs under the subject interpreter and compares their transcripts against stored golden records or a reference oracle"
	app.Flags = flags.Flags
	app.Commands = []*cli.Command{
		listCommand(),
		testCommand(),
		generateCommand(),
		statusCommand(),
		cleanCommand(),
		importCommand(),
		resetCommand(),
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if acceptor.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if acceptor.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

// setup builds the logger, config and acceptor shared by all commands.
func setup(ctx *cli.Context) (*acceptor.Acceptor, *acceptor.Config, error) {
	logger := setupLogger(ctx.String(flags.LogLevel.Name))

	cfg, err := acceptor.NewConfig(ctx, logger)
	if err != nil {
		return nil, nil, acceptor.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	a, err := acceptor.New(cfg)
	if err != nil {
		return nil, nil, acceptor.NewRuntimeError(fmt.Errorf("failed to create acceptor: %w", err))
	}
	return a, cfg, nil
}

func setupLogger(level string) log.Logger {
	lvl := log.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = log.LevelDebug
	case "warn":
		lvl = log.LevelWarn
	case "error":
		lvl = log.LevelError
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, false))
	log.SetDefault(logger)
	return logger
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all subjects and their status",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status: pending, tested or failed",
			},
		},
		Action: func(ctx *cli.Context) error {
			a, _, err := setup(ctx)
			if err != nil {
				return err
			}

			filter := registry.Status(ctx.String("status"))
			if filter != "" && !filter.IsValid() {
				return acceptor.NewRuntimeError(fmt.Errorf("invalid status filter %q", filter))
			}
			a.PrintList(os.Stdout, filter)
			return nil
		},
	}
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     "Test one subject or all subjects",
		ArgsUsage: "[subject]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Test all subjects with scenarios"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show diffs for failing scenarios"},
			&cli.BoolFlag{Name: "show-output", Usage: "Show normalized output for passing scenarios"},
		},
		Action: func(ctx *cli.Context) error {
			a, cfg, err := setup(ctx)
			if err != nil {
				return err
			}

			opts := acceptor.ReportOptions{
				Verbose:    ctx.Bool("verbose"),
				ShowOutput: ctx.Bool("show-output"),
			}

			all := ctx.Bool("all")
			subject := ctx.Args().First()
			if !all && subject == "" {
				return acceptor.NewRuntimeError(errors.New("specify a subject or --all"))
			}

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if all && !cfg.RunOnce {
				return runContinuous(runCtx, a, cfg, opts)
			}

			var result *types.RunResult
			if all {
				result, err = a.RunAll(runCtx)
			} else {
				result, err = a.RunSubject(runCtx, subject)
			}
			if err != nil {
				return err
			}

			a.PrintResults(os.Stdout, result, opts)
			if result.Stats.Failures() > 0 {
				return acceptor.NewTestFailureError(result.String())
			}
			return nil
		},
	}
}

// runContinuous reruns all subjects at the configured interval and serves
// healthz and metrics endpoints until interrupted. The exit code reflects
// only runtime errors; verdicts are published via metrics.
func runContinuous(ctx context.Context, a *acceptor.Acceptor, cfg *acceptor.Config, opts acceptor.ReportOptions) error {
	svc := service.New(cfg.HealthzAddr, cfg.MetricsAddr)
	svc.Start(ctx)
	defer svc.Shutdown()

	log.Info("Starting compat-acceptor in continuous mode", "interval", cfg.RunInterval)
	return a.RunPeriodic(ctx, func(result *types.RunResult) {
		a.PrintResults(os.Stdout, result, opts)
	})
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate golden records for a subject's scenarios",
		ArgsUsage: "<subject>",
		Action: func(ctx *cli.Context) error {
			a, _, err := setup(ctx)
			if err != nil {
				return err
			}

			subject := ctx.Args().First()
			if subject == "" {
				return acceptor.NewRuntimeError(errors.New("specify a subject"))
			}

			genCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Generate(genCtx, subject)
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the aggregate test status",
		Action: func(ctx *cli.Context) error {
			a, _, err := setup(ctx)
			if err != nil {
				return err
			}
			a.PrintStatus(os.Stdout)
			return nil
		},
	}
}

func cleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove run artifacts",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Also remove stored golden records"},
		},
		Action: func(ctx *cli.Context) error {
			a, _, err := setup(ctx)
			if err != nil {
				return err
			}
			return a.Clean(ctx.Bool("all"))
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Bulk-register subjects from a YAML manifest",
		ArgsUsage: "<manifest.yaml>",
		Action: func(ctx *cli.Context) error {
			a, _, err := setup(ctx)
			if err != nil {
				return err
			}

			manifest := ctx.Args().First()
			if manifest == "" {
				return acceptor.NewRuntimeError(errors.New("specify a manifest file"))
			}

			count, err := a.Registry().ImportManifest(manifest)
			if err != nil {
				return acceptor.NewRuntimeError(err)
			}
			if err := a.Registry().Save(); err != nil {
				return acceptor.NewRuntimeError(err)
			}
			fmt.Printf("Imported %d subjects\n", count)
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:      "reset",
		Usage:     "Manually reset a subject's status to pending",
		ArgsUsage: "<subject>",
		Action: func(ctx *cli.Context) error {
			a, _, err := setup(ctx)
			if err != nil {
				return err
			}

			subject := ctx.Args().First()
			if subject == "" {
				return acceptor.NewRuntimeError(errors.New("specify a subject"))
			}

			if err := a.Registry().Reset(subject); err != nil {
				return acceptor.NewRuntimeError(err)
			}
			if err := a.Registry().Save(); err != nil {
				return acceptor.NewRuntimeError(err)
			}
			return nil
		},
	}
}
