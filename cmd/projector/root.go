package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/config"
)

type rootOptions struct {
	logLevel string
	debug    bool
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "projector",
		Short:         "Household net worth projection engine",
		Long:          "Projects a household's income, taxes, withdrawals and net worth year by year until the last person's life expectancy, with Monte Carlo risk analysis.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := opts.logLevel
			if opts.debug {
				level = "debug"
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), level)
			slog.SetDefault(opts.logger)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "emit a per-year trace of the projection")

	cmd.AddCommand(
		newProjectCmd(opts),
		newMonteCarloCmd(opts),
		newServeCmd(opts),
		newExampleCmd(),
		newJurisdictionsCmd(),
	)
	return cmd
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.ParseLogLevel(level)}))
}

// engine builds a projection engine logging through the command's logger
func (o *rootOptions) engine() *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(calculation.NewSlogLogger(o.logger))
	engine.Debug = o.debug
	return engine
}
