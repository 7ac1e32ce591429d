package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/internal/config"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/observability"
)

// Options are the global CLI flags.
type Options struct {
	ConfigPath string
	Debug      bool
	Dir        string
}

// App bundles what every command needs.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Engine  *nfalab.Engine
	Metrics *observability.Metrics
	Dir     string
}

// NewApp loads the configuration and builds the engine with standard CLI
// conventions: metrics hooks always, log hooks in debug mode.
func NewApp(opts Options) (*App, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}

	cfg, err := config.Load(configPath(opts))
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.LogLevel, cfg.LogFormat, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	metrics := observability.NewMetrics()
	hooks := []domain.LifecycleHooks{metrics.Hooks()}
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	engine := nfalab.New(
		nfalab.WithLogger(logger),
		nfalab.WithLifecycleHooks(domain.ChainHooks(hooks...)),
		nfalab.WithMaxPatternLength(cfg.MaxPatternLength),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Engine:  engine,
		Metrics: metrics,
		Dir:     opts.Dir,
	}, nil
}

// configPath resolves --config, falling back to nfalab.yaml inside --dir.
// An empty result lets config.Load apply its own optional default.
func configPath(opts Options) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	candidate := filepath.Join(opts.Dir, config.DefaultFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
