package application

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eugenenazirov/platformsh-env/internal/config"
	"github.com/eugenenazirov/platformsh-env/internal/envstore"
	"github.com/eugenenazirov/platformsh-env/internal/mapper"
	"github.com/eugenenazirov/platformsh-env/internal/platform"
)

// App encapsulates the mapping dependencies.
type App struct {
	provider platform.Provider
	mapper   *mapper.Mapper
	writer   *envstore.Writer
	memory   *envstore.MemorySink
	logger   *zap.Logger
}

// New initializes the application from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	provider, err := NewProvider(cfg.FactsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform facts: %w", err)
	}

	sinks := make([]envstore.Sink, 0, len(cfg.Sinks))
	var memory *envstore.MemorySink
	for _, name := range cfg.Sinks {
		sink, err := envstore.NewSink(name)
		if err != nil {
			return nil, fmt.Errorf("failed to build sink: %w", err)
		}
		if m, ok := sink.(*envstore.MemorySink); ok {
			memory = m
		}
		sinks = append(sinks, sink)
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	// The first sink is authoritative for existing values.
	source, ok := sinks[0].(envstore.Lookuper)
	if !ok {
		return nil, fmt.Errorf("sink %s cannot serve lookups", sinks[0].Name())
	}

	writer, err := envstore.NewWriter(source, sinks...)
	if err != nil {
		return nil, fmt.Errorf("failed to build environment writer: %w", err)
	}

	m := mapper.New(provider,
		mapper.WithDatabaseRelationship(cfg.DatabaseRelationship),
		mapper.WithCacheRelationship(cfg.CacheRelationship),
		mapper.WithSessionRelationship(cfg.SessionRelationship),
		mapper.WithRedisClient(cfg.RedisClient),
		mapper.WithLogger(logger),
	)

	return &App{
		provider: provider,
		mapper:   m,
		writer:   writer,
		memory:   memory,
		logger:   logger,
	}, nil
}

// NewProvider returns the platform provider for factsFile. Without a facts
// file the process is treated as running outside the platform.
func NewProvider(factsFile string) (platform.Provider, error) {
	if factsFile == "" {
		return platform.Absent(), nil
	}
	return platform.LoadFacts(factsFile)
}

// Run maps the platform facts into the configured sinks and returns the
// assignments that were written.
func (a *App) Run() ([]mapper.Assignment, error) {
	if !a.provider.InRuntime() {
		a.logger.Info("not running on the platform, environment left untouched")
		return nil, nil
	}

	plan, err := a.mapper.Run(a.writer)
	if err != nil {
		return nil, fmt.Errorf("map environment: %w", err)
	}

	a.logger.Info("environment mapped",
		zap.Int("variables", len(plan)),
		zap.String("application", a.provider.ApplicationName()),
	)
	return plan, nil
}

// Memory returns the in-memory mirror, or nil when it is not configured.
func (a *App) Memory() *envstore.MemorySink {
	return a.memory
}
