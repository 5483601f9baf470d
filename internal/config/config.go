package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/platformsh-env/internal/envstore"
	"github.com/eugenenazirov/platformsh-env/internal/mapper"
)

const defaultLogLevel = "info"

var (
	knownSinks     = []string{envstore.SinkProcess, envstore.SinkMemory}
	knownLogLevels = []string{"debug", "info", "warn", "error"}
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	FactsFile            string
	Sinks                []string
	DatabaseRelationship string
	CacheRelationship    string
	SessionRelationship  string
	RedisClient          string
	LogLevel             string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	FactsFile     string            `yaml:"facts_file"`
	Sinks         []string          `yaml:"sinks"`
	Relationships yamlRelationships `yaml:"relationships"`
	RedisClient   string            `yaml:"redis_client"`
	LogLevel      string            `yaml:"log_level"`
}

// yamlRelationships represents the relationships section in YAML.
type yamlRelationships struct {
	Database string `yaml:"database"`
	Cache    string `yaml:"cache"`
	Session  string `yaml:"session"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile string
	FactsFile  *string
	Sinks      []string
	LogLevel   *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables (lowest explicit source)
	applyEnvConfig(&cfg)

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Sinks:                []string{envstore.SinkProcess},
		DatabaseRelationship: mapper.DefaultDatabaseRelationship,
		CacheRelationship:    mapper.DefaultCacheRelationship,
		SessionRelationship:  mapper.DefaultSessionRelationship,
		RedisClient:          mapper.DefaultRedisClient,
		LogLevel:             defaultLogLevel,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.FactsFile != "" {
		cfg.FactsFile = yamlCfg.FactsFile
	}

	if len(yamlCfg.Sinks) > 0 {
		cfg.Sinks = normalizeSinks(yamlCfg.Sinks)
	}

	if yamlCfg.Relationships.Database != "" {
		cfg.DatabaseRelationship = yamlCfg.Relationships.Database
	}

	if yamlCfg.Relationships.Cache != "" {
		cfg.CacheRelationship = yamlCfg.Relationships.Cache
	}

	if yamlCfg.Relationships.Session != "" {
		cfg.SessionRelationship = yamlCfg.Relationships.Session
	}

	if yamlCfg.RedisClient != "" {
		cfg.RedisClient = yamlCfg.RedisClient
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(yamlCfg.LogLevel)
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if facts := strings.TrimSpace(os.Getenv("PLATFORMENV_FACTS")); facts != "" {
		cfg.FactsFile = facts
	}

	if rawSinks := strings.TrimSpace(os.Getenv("PLATFORMENV_SINKS")); rawSinks != "" {
		if sinks := normalizeSinks(strings.Split(rawSinks, ",")); len(sinks) > 0 {
			cfg.Sinks = sinks
		}
	}

	if name := strings.TrimSpace(os.Getenv("PLATFORMENV_DATABASE_RELATIONSHIP")); name != "" {
		cfg.DatabaseRelationship = name
	}

	if name := strings.TrimSpace(os.Getenv("PLATFORMENV_CACHE_RELATIONSHIP")); name != "" {
		cfg.CacheRelationship = name
	}

	if name := strings.TrimSpace(os.Getenv("PLATFORMENV_SESSION_RELATIONSHIP")); name != "" {
		cfg.SessionRelationship = name
	}

	if client := strings.TrimSpace(os.Getenv("PLATFORMENV_REDIS_CLIENT")); client != "" {
		cfg.RedisClient = client
	}

	if level := strings.TrimSpace(os.Getenv("PLATFORMENV_LOG_LEVEL")); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.FactsFile != nil && *overrides.FactsFile != "" {
		cfg.FactsFile = *overrides.FactsFile
	}

	if sinks := normalizeSinks(overrides.Sinks); len(sinks) > 0 {
		cfg.Sinks = sinks
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(*overrides.LogLevel)
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if len(cfg.Sinks) == 0 {
		return fmt.Errorf("at least one sink is required")
	}
	for _, sink := range cfg.Sinks {
		if !slices.Contains(knownSinks, sink) {
			return fmt.Errorf("unknown sink %q (expected one of %s)", sink, strings.Join(knownSinks, ", "))
		}
	}
	if cfg.DatabaseRelationship == "" || cfg.CacheRelationship == "" || cfg.SessionRelationship == "" {
		return fmt.Errorf("relationship names cannot be empty")
	}
	if !slices.Contains(knownLogLevels, cfg.LogLevel) {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return nil
}

// normalizeSinks trims, lowercases and de-duplicates sink names, keeping their order.
func normalizeSinks(raw []string) []string {
	sinks := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || slices.Contains(sinks, name) {
			continue
		}
		sinks = append(sinks, name)
	}
	return sinks
}
