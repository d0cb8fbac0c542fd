package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/neurostack/spiketrace/internal/api"
	"github.com/neurostack/spiketrace/internal/config"
	"github.com/neurostack/spiketrace/internal/engine"
	"github.com/neurostack/spiketrace/internal/metrics"
	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/report"
	"github.com/neurostack/spiketrace/internal/service"
	"github.com/neurostack/spiketrace/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "spiketrace",
		Short:         "Simulate and characterize neural spike trains",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(newAnalyzeCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	return root
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		rate     float64
		duration float64
		seed     uint64
		binSize  float64
		output   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one simulation, print the summary, and render the figure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)

			req := models.AnalysisRequest{
				Rate:       cfg.Simulation.RateHz,
				DurationMs: cfg.Simulation.DurationMs,
				Seed:       cfg.Simulation.Seed,
				BinSizeMs:  cfg.Analysis.BinSizeMs,
			}
			if cmd.Flags().Changed("rate") {
				req.Rate = rate
			}
			if cmd.Flags().Changed("duration") {
				req.DurationMs = duration
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = seed
			}
			if cmd.Flags().Changed("bin-size") {
				req.BinSizeMs = binSize
			}
			figurePath := cfg.Output.FigurePath
			if cmd.Flags().Changed("output") {
				figurePath = output
			}

			svc := service.NewAnalysisService(logger, engine.NewPipeline(logger, nil, nil, nil), nil)

			logger.Info("generating simulated neural data",
				slog.Float64("rate_hz", req.Rate),
				slog.Float64("duration_ms", req.DurationMs),
				slog.Uint64("seed", req.Seed),
			)
			result, err := svc.Analyze(req)
			if err != nil {
				return err
			}
			logger.Info("spike train generated", slog.Int("spikes", len(result.Train)))

			fmt.Fprint(cmd.OutOrStdout(), report.Render(result))

			if err := svc.RenderFigure(result, figurePath); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", 15, "mean firing rate in Hz")
	cmd.Flags().Float64Var(&duration, "duration", 1000, "recording duration in ms")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().Float64Var(&binSize, "bin-size", 50, "rate estimation bin width in ms")
	cmd.Flags().StringVarP(&output, "output", "o", "", "figure output path")
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
			logger.Info("starting spiketrace", slog.String("address", cfg.Server.Address))

			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			svc := service.NewAnalysisService(logger, engine.NewPipeline(logger, nil, nil, nil), nil)
			handlers := api.NewHandlers(logger, svc, cfg.Simulation, cfg.Analysis.BinSizeMs)
			server, err := api.NewServer(cfg.Server, handlers)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var metricsServer *http.Server
			if cfg.Server.MetricsAddress != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				metricsServer = &http.Server{
					Addr:         cfg.Server.MetricsAddress,
					Handler:      mux,
					ReadTimeout:  5 * time.Second,
					WriteTimeout: 15 * time.Second,
				}
				go func() {
					logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
					if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server exited", slog.Any("error", err))
						stop()
					}
				}()
			}

			go func() {
				if serveErr := server.Start(); serveErr != nil {
					logger.Error("http server exited", slog.Any("error", serveErr))
					stop()
				}
			}()

			<-ctx.Done()
			logger.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
			defer cancel()
			server.Shutdown(shutdownCtx)

			if metricsServer != nil {
				metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
				if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Warn("metrics server shutdown", slog.Any("error", err))
				}
				cancelMetrics()
			}

			logger.Info("spiketrace stopped")
			return nil
		},
	}
}
