package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/extenscan/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/extenscan/internal/domain-orchestrators"
	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	domaingateways "github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
	"github.com/ochairo/extenscan/internal/domain/services"
	"github.com/ochairo/extenscan/internal/external-adapters/sqlite"
	"github.com/ochairo/extenscan/internal/external-adapters/yaml"
	"github.com/ochairo/extenscan/internal/external-adapters/zaplog"
)

// app holds state shared by every command, set up before each run
type app struct {
	verbose    bool
	configPath string

	// cachePath overrides the default cache location when set
	cachePath string

	logger     interfaces.Logger
	configRepo *yaml.ConfigRepository
	config     *entities.Config
	sync       func()
}

// flushLogs writes out buffered log entries once; safe to call before setup
func (a *app) flushLogs() {
	if a.sync != nil {
		a.sync()
		a.sync = nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "extenscan",
		Short:         "Scan installed extensions and packages for vulnerabilities and risky permissions",
		Long:          "extenscan inventories browser extensions, editor extensions, npm globals and Homebrew formulae,\nchecks them against the OSV database and package registries, and scores the overall risk.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: $EXTENSCAN_CONFIG or <user config dir>/extenscan/config.yaml)")

	root.AddCommand(
		newScanCmd(a),
		newListSourcesCmd(a),
		newConfigCmd(a),
		newClearCacheCmd(a),
		newInfoCmd(a),
		newWatchCmd(a),
		newVerifyCmd(a),
	)
	return root
}

// setup builds the logger and loads configuration. An unreadable config
// falls back to defaults with a warning.
func (a *app) setup(ctx context.Context) error {
	logger, err := zaplog.New(a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	a.sync = func() { _ = logger.Sync() }

	path, err := yaml.DefaultConfigPath(a.configPath)
	if err != nil {
		return err
	}
	a.configRepo = yaml.NewConfigRepository(path)

	config, err := a.configRepo.Load(ctx)
	if err != nil {
		a.logger.Warn("using default configuration", interfaces.F("error", err.Error()))
		config = entities.DefaultConfig()
	}
	a.config = config
	return nil
}

// openCache opens the on-disk version cache and drops expired entries
func (a *app) openCache(ctx context.Context) (*sqlite.Cache, error) {
	path := a.cachePath
	if path == "" {
		var err error
		if path, err = sqlite.DefaultCachePath(); err != nil {
			return nil, err
		}
	}

	cache, err := sqlite.Open(path, a.config.CacheTTLHours)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if removed, err := cache.Prune(ctx); err != nil {
		a.logger.Warn("failed to prune cache", interfaces.F("error", err.Error()))
	} else if removed > 0 {
		a.logger.Debug("pruned expired cache entries", interfaces.F("count", removed))
	}
	return cache, nil
}

func (a *app) scannerRegistry() *gateways.ScannerRegistry {
	return gateways.NewScannerRegistry(gateways.NewExecRunner(0), gateways.NewPathResolver(), a.logger)
}

// newOrchestrator wires the scan workflow. The returned cleanup closes the cache.
func (a *app) newOrchestrator(ctx context.Context) (*orchestrators.ScanOrchestrator, func()) {
	var (
		cache   domaingateways.CacheGateway
		cleanup = func() {}
	)
	if c, err := a.openCache(ctx); err != nil {
		a.logger.Warn("continuing without cache", interfaces.F("error", err.Error()))
	} else {
		cache = c
		cleanup = func() { _ = c.Close() }
	}

	security := services.NewSecurityService(
		gateways.NewOSVGateway(a.logger),
		gateways.NewVersionFetcher(cache, a.logger),
		a.logger,
	)
	return orchestrators.NewScanOrchestrator(a.scannerRegistry(), security, a.logger), cleanup
}

// parseSources converts --source values; an empty list means the configured defaults
func (a *app) parseSources(names []string) ([]entities.Source, error) {
	if len(names) == 0 {
		return a.config.DefaultSources, nil
	}

	sources := make([]entities.Source, 0, len(names))
	for _, name := range names {
		source, err := entities.ParseSource(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}
