package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mqops/mqmon/internal/collector"
	"github.com/mqops/mqmon/internal/infra"
	"github.com/mqops/mqmon/internal/monitor"
	"github.com/mqops/mqmon/internal/render"
	"github.com/mqops/mqmon/internal/server"
)

type options struct {
	config  string
	server  string
	output  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "mqmon",
		Short:         "Health monitor for MQ queue managers, channels and queues",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "config.yaml", "path to config file")
	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "", "monitor only this server from config")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output format (console, json, csv, table)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show detailed output")

	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// setup loads and validates configuration, applies CLI overrides and builds
// the shared dependencies. Any error here is fatal before any telemetry is
// touched.
func setup(opts *options) (*infra.Config, *zap.Logger, []infra.ServerConfig, error) {
	cfg, err := infra.LoadConfig(opts.config)
	if err != nil {
		return nil, nil, nil, err
	}

	if opts.output != "" {
		if !render.Known(opts.output) {
			return nil, nil, nil, fmt.Errorf("invalid output format %q", opts.output)
		}
		cfg.Output.Format = opts.output
	}

	log, err := infra.NewLogger(cfg.Logger, opts.verbose)
	if err != nil {
		return nil, nil, nil, err
	}

	servers := cfg.Servers
	if opts.server != "" {
		servers = nil
		for _, s := range cfg.Servers {
			if s.Name == opts.server {
				servers = append(servers, s)
			}
		}
		if len(servers) == 0 {
			return nil, nil, nil, fmt.Errorf("server %q not found in config", opts.server)
		}
	}

	log.Info("config loaded", zap.String("path", opts.config), zap.Int("servers", len(servers)))
	return cfg, log, servers, nil
}

func buildRunner(cfg *infra.Config, log *zap.Logger, metrics *monitor.Metrics) (*monitor.Runner, render.Options, error) {
	col, err := collector.New(cfg.Collector, log)
	if err != nil {
		return nil, render.Options{}, err
	}

	ropts := render.Options{Colored: cfg.Output.Colored, IncludeSystem: cfg.Output.IncludeSystem}
	rend, err := render.New(cfg.Output.Format, ropts)
	if err != nil {
		return nil, render.Options{}, err
	}

	return monitor.NewRunner(cfg, col, rend, log, metrics, os.Stdout), ropts, nil
}

func runOnce(ctx context.Context, opts *options) error {
	cfg, log, servers, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	runner, _, err := buildRunner(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	reports, err := runner.Run(ctx, servers)
	if err != nil {
		return err
	}
	log.Info("monitoring completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("groups", len(reports)))
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run monitoring passes on an interval and expose the status API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between passes (default from config)")
	return cmd
}

func runServe(ctx context.Context, opts *options, interval time.Duration) error {
	cfg, log, servers, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	if interval <= 0 {
		interval = cfg.HTTP.Interval
	}

	reg := prometheus.NewRegistry()
	metrics := monitor.NewMetrics(reg)

	runner, ropts, err := buildRunner(cfg, log, metrics)
	if err != nil {
		return err
	}

	store := server.NewStore()
	statusAPI := server.NewStatusServer(log, store, reg)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      statusAPI,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Monitoring loop: one pass immediately, then on every tick. Pass
	// results replace the store snapshot atomically.
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			reports, err := runner.Run(ctx, servers)
			if err != nil {
				log.Error("monitoring pass aborted", zap.Error(err))
			} else {
				store.Update(reports, ropts)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("status API listening", zap.String("addr", cfg.HTTP.Addr), zap.Duration("interval", interval))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
