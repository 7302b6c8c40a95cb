package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/packs/internal/dev"
	"github.com/vango-dev/packs/internal/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr   string
		events bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve asset lookups over HTTP",
		Long: `Serve manifest lookups over HTTP for processes that are not written in Go.

Routes:
  GET  /lookup/{name}?variant=   resolved path as JSON
  GET  /packs/{name}?variant=    redirect to the resolved path
  GET  /manifest?variant=        loaded manifest
  POST /refresh?variant=         reload a manifest
  GET  /metrics                  Prometheus metrics

Examples:
  packs serve
  packs serve --addr :8080 --env production`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags.logLevel, flags.logFormat, cmd.ErrOrStderr())

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			var notifier *dev.Notifier
			var onCompile func(dev.BuildResult)
			if events {
				notifier = dev.NewNotifier()
				defer notifier.Close()
				onCompile = notifier.OnCompile
			}

			deps := newStore(cfg, logger, reg, onCompile)
			if cfg.CompileOnDemand() {
				logger.Info("compile on demand enabled",
					"dev_server", deps.probe.Address(),
					"dev_server_running", deps.probe.IsRunning(),
				)
			}

			opts := server.Options{
				Store:     deps.store,
				AssetHost: cfg.AssetHost,
				Gatherer:  reg,
				Logger:    logger,
			}
			if notifier != nil {
				opts.Events = notifier
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			info(cmd.OutOrStdout(), "Serving %s manifests from %s on %s", cfg.Env(), cfg.PublicOutputPath(), addr)
			return server.New(opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:3036", "Address to listen on")
	cmd.Flags().BoolVar(&events, "events", true, "Broadcast compile events on "+server.EventsPath)

	return cmd
}
