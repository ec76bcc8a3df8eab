package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/config"
	"github.com/rpgo/networth-projector/internal/output"
	"github.com/rpgo/networth-projector/internal/server"
)

func newProjectCmd(root *rootOptions) *cobra.Command {
	var (
		format    string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "project <plan.yaml>",
		Short: "Run a deterministic projection of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			result, err := root.engine().RunProjection(cmd.Context(), plan, nil)
			if err != nil {
				return fmt.Errorf("projection failed: %w", err)
			}
			report := &output.Report{Plan: plan, Result: result}
			if format == "all" {
				return writeAll(cmd, report, outputDir)
			}
			return output.GenerateReport(report, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format, or \"all\" to write every format to --output-dir")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory used by --format all")
	return cmd
}

func newMonteCarloCmd(root *rootOptions) *cobra.Command {
	var (
		cfg            calculation.MonteCarloConfig
		mode           string
		historicalPath string
		format         string
		csvDir         string
		progress       bool
	)
	cmd := &cobra.Command{
		Use:   "montecarlo <plan.yaml>",
		Short: "Run a Monte Carlo analysis of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			cfg.Mode = calculation.MonteCarloMode(mode)

			var historical *calculation.HistoricalDataManager
			if cfg.Mode == calculation.ModeHistorical {
				historical = calculation.NewHistoricalDataManager(historicalPath)
				if err := historical.LoadAllData(); err != nil {
					return fmt.Errorf("load historical data: %w", err)
				}
			}
			if progress {
				cfg.Progress = func(done, total int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%d/%d trials", done, total)
					if done == total {
						fmt.Fprintln(cmd.ErrOrStderr())
					}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			mc := calculation.NewMonteCarloOrchestrator(root.engine(), historical)
			summary, err := mc.RunMonteCarlo(ctx, plan, cfg)
			if err != nil {
				return fmt.Errorf("monte carlo failed: %w", err)
			}
			if csvDir != "" {
				rep := &output.MonteCarloCSVReport{Summary: summary}
				if err := rep.GenerateAllCSVReports(csvDir); err != nil {
					return err
				}
			}
			return output.GenerateReport(&output.Report{Plan: plan, MonteCarlo: summary}, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&cfg.NumSimulations, "simulations", "n", 1000, "number of trials")
	cmd.Flags().Float64Var(&cfg.VolatilityPct, "volatility", 15, "scalar modes return standard deviation, percent (0 uses 15)")
	cmd.Flags().StringVar(&mode, "mode", string(calculation.ModeScalar), "scalar, scalar_yearly, asset_class or historical")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "parallel trials (0 uses all CPUs)")
	cmd.Flags().StringVar(&historicalPath, "historical", "testdata/historical_returns.csv", "historical returns CSV for historical mode")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format")
	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "also write summary, percentile and outcome CSVs to this directory")
	cmd.Flags().BoolVar(&progress, "progress", false, "print progress to stderr")
	return cmd
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if envFile != "" {
				envFiles = append(envFiles, envFile)
			}
			cfg := config.LoadAppConfig(envFiles...)
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			historical := calculation.NewHistoricalDataManager(cfg.HistoricalDataPath)
			if err := historical.LoadAllData(); err != nil {
				logger.Warn("historical mode disabled", "path", cfg.HistoricalDataPath, "error", err)
				historical = nil
			}

			srv := server.New(cfg, logger, historical).HTTPServer()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "address", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()
			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	return cmd
}

func newExampleCmd() *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example plan as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := config.NewInputParser().CreateExamplePlan()
			if outputFile != "" {
				if err := output.SavePlan(plan, outputFile); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", outputFile)
				return nil
			}
			return output.WritePlan(plan, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newJurisdictionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jurisdictions",
		Short: "List supported state tax jurisdictions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, j := range calculation.NewTaxCalculator().Jurisdictions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s\n", j.Code, j.Name)
			}
		},
	}
}

func writeAll(cmd *cobra.Command, report *output.Report, dir string) error {
	files, err := output.GenerateAll(report, dir)
	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
	}
	return err
}
