package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChicagoDave/scwdeck/internal/server"
	"github.com/ChicagoDave/scwdeck/internal/watch"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "scwdeck",
		Short:        "MCNP6 input deck generator for supercritical-water reactor models",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := config.Build()
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(latticeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// projectArg returns the project directory argument, defaulting to the
// working directory.
func projectArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func buildCmd() *cobra.Command {
	var (
		output   string
		manifest bool
	)

	cmd := &cobra.Command{
		Use:   "build [project-path]",
		Short: "Validate the project and write its MCNP input deck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBuild(projectArg(args), output, manifest)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "deck path (default: the spec's output, or <project>.i)")
	cmd.Flags().BoolVar(&manifest, "manifest", false, "also write a JSON manifest next to the deck")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a reactor spec without writing a deck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(projectArg(args))
		},
	}
}

func latticeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lattice [project-path]",
		Short: "Print the core lattice, its fill and assembly positions as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runLattice(projectArg(args))
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local preview server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			return server.New(projectArg(args), port, logger).Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		output   string
		debounce = watch.DefaultDebounce
	)

	cmd := &cobra.Command{
		Use:   "watch [project-path]",
		Short: "Rebuild the deck whenever a project file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			return runWatch(ctx, projectArg(args), output, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "deck path (default: the spec's output, or <project>.i)")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before rebuilding")
	return cmd
}
