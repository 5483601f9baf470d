package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"PLATFORMENV_FACTS",
		"PLATFORMENV_SINKS",
		"PLATFORMENV_DATABASE_RELATIONSHIP",
		"PLATFORMENV_CACHE_RELATIONSHIP",
		"PLATFORMENV_SESSION_RELATIONSHIP",
		"PLATFORMENV_REDIS_CLIENT",
		"PLATFORMENV_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "platformenv.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.FactsFile != "" {
		t.Fatalf("expected no facts file, got %q", cfg.FactsFile)
	}
	if !slices.Equal(cfg.Sinks, []string{"process"}) {
		t.Fatalf("expected default process sink, got %v", cfg.Sinks)
	}
	if cfg.DatabaseRelationship != "database" || cfg.CacheRelationship != "rediscache" || cfg.SessionRelationship != "redissession" {
		t.Fatalf("unexpected default relationships: %+v", cfg)
	}
	if cfg.RedisClient != "phpredis" {
		t.Fatalf("unexpected default redis client %q", cfg.RedisClient)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("expected default log level %s, got %s", defaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLATFORMENV_FACTS", "/etc/facts.yaml")
	t.Setenv("PLATFORMENV_SINKS", "memory, process ,memory")
	t.Setenv("PLATFORMENV_DATABASE_RELATIONSHIP", "postgres")
	t.Setenv("PLATFORMENV_REDIS_CLIENT", "predis")
	t.Setenv("PLATFORMENV_LOG_LEVEL", "DEBUG")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.FactsFile != "/etc/facts.yaml" {
		t.Fatalf("expected facts file from env, got %q", cfg.FactsFile)
	}
	if want := []string{"memory", "process"}; !slices.Equal(cfg.Sinks, want) {
		t.Fatalf("expected sinks %v, got %v", want, cfg.Sinks)
	}
	if cfg.DatabaseRelationship != "postgres" || cfg.RedisClient != "predis" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lowercased log level, got %q", cfg.LogLevel)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLATFORMENV_FACTS", "/from/env.yaml")
	t.Setenv("PLATFORMENV_CACHE_RELATIONSHIP", "envcache")
	t.Setenv("PLATFORMENV_LOG_LEVEL", "warn")

	path := writeConfig(t, `
facts_file: /from/yaml.yaml
sinks: [memory]
relationships:
  cache: yamlcache
  session: yamlsession
log_level: error
`)

	facts := "/from/cli.yaml"
	cfg, err := Load(&CLIOverrides{ConfigFile: path, FactsFile: &facts})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.FactsFile != "/from/cli.yaml" {
		t.Fatalf("expected CLI facts file to win, got %q", cfg.FactsFile)
	}
	if cfg.CacheRelationship != "yamlcache" {
		t.Fatalf("expected YAML to override env, got %q", cfg.CacheRelationship)
	}
	if cfg.SessionRelationship != "yamlsession" {
		t.Fatalf("expected YAML session relationship, got %q", cfg.SessionRelationship)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected YAML log level, got %q", cfg.LogLevel)
	}
	if !slices.Equal(cfg.Sinks, []string{"memory"}) {
		t.Fatalf("expected YAML sinks, got %v", cfg.Sinks)
	}

	level := "debug"
	cfg, err = Load(&CLIOverrides{ConfigFile: path, Sinks: []string{"process", "memory"}, LogLevel: &level})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !slices.Equal(cfg.Sinks, []string{"process", "memory"}) || cfg.LogLevel != "debug" {
		t.Fatalf("expected CLI sinks and level to win, got %v %s", cfg.Sinks, cfg.LogLevel)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})

	t.Run("malformed config file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(&CLIOverrides{ConfigFile: writeConfig(t, "sinks: [")}); err == nil {
			t.Fatalf("expected error for malformed YAML")
		}
	})

	t.Run("unknown sink", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(&CLIOverrides{Sinks: []string{"superglobals"}}); err == nil {
			t.Fatalf("expected error for unknown sink")
		}
	})

	t.Run("unknown log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PLATFORMENV_LOG_LEVEL", "verbose")
		if _, err := Load(nil); err == nil {
			t.Fatalf("expected error for unknown log level")
		}
	})
}

func TestNormalizeSinks(t *testing.T) {
	got := normalizeSinks([]string{" Process", "", "memory", "process"})
	if want := []string{"process", "memory"}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := normalizeSinks([]string{" ", ""}); len(got) != 0 {
		t.Fatalf("expected no sinks, got %v", got)
	}
}
