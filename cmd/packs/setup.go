package main

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/packs/internal/config"
	"github.com/vango-dev/packs/internal/dev"
	"github.com/vango-dev/packs/pkg/assets"
)

// newLogger builds a logger from the --log-level and --log-format flags.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// loadConfig reads packs.json for the selected environment.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	env := config.ResolveEnv(flags.env)
	if flags.configPath != "" {
		return config.LoadFile(flags.configPath, env)
	}
	return config.LoadFromWorkingDir(env)
}

// storeDeps wires a Store to the dev server probe and the compile command.
type storeDeps struct {
	store *assets.Store
	probe *dev.Probe
}

func newStore(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, onCompile func(dev.BuildResult)) storeDeps {
	probe := dev.NewProbeFromConfig(cfg)
	compiler := dev.NewCompilerFromConfig(cfg, logger, onCompile)

	opts := []assets.StoreOption{assets.WithLogger(logger.With("component", "manifest"))}
	if reg != nil {
		opts = append(opts, assets.WithMetrics(assets.NewMetrics(
			assets.WithRegistry(reg),
			assets.WithConstLabels(prometheus.Labels{"env": cfg.Env()}),
		)))
	}

	return storeDeps{
		store: assets.NewStore(cfg, probe, compiler, opts...),
		probe: probe,
	}
}
