// Package app provides the shared entry point for the mockmate binary.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dverbeek/mockmate/internal/config"
	"github.com/dverbeek/mockmate/internal/core"
	"github.com/dverbeek/mockmate/internal/gateway"

	// Modules register themselves at init time.
	_ "github.com/dverbeek/mockmate/internal/telemetry"
	_ "github.com/dverbeek/mockmate/modules/memory/inmem"
	_ "github.com/dverbeek/mockmate/modules/provider/openai"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version is injected at build time via ldflags.
	Version string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, starts all modules, and blocks until a shutdown
// signal is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	}))

	if params.Version != "" {
		gateway.Version = params.Version
	}

	appCtx := core.NewAppContext(logger)
	appCtx = appCtx.WithModuleConfigs(cfg.Modules)

	application := core.NewApp(appCtx)
	ids := config.Resolve(cfg)
	if err := application.LoadModules(ids); err != nil {
		return err
	}

	// Wire the pipeline between LoadModules and Run: the provider and
	// history modules have registered their services by now, and the
	// gateway resolves the pipeline at Start.
	if err := wirePipeline(application, appCtx, cfg, logger); err != nil {
		return err
	}

	return application.Run()
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/mockmate/mockmate.yaml →
// ~/.config/mockmate/mockmate.yaml → ./mockmate.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "mockmate", "mockmate.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "mockmate", "mockmate.yaml"))
	}

	candidates = append(candidates, "mockmate.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}
