package application

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/platformsh-env/internal/config"
	"github.com/eugenenazirov/platformsh-env/internal/mapper"
)

const testFacts = `
in_runtime: true
application_name: app
project_entropy: c2VjcmV0LWVudHJvcHktc2VlZC1tYXRlcmlhbC0wMTIzNDU2Nzg5
routes:
  - url: https://app.example/
    type: upstream
    upstream: app
relationships:
  database:
    - scheme: mysql
      host: database.internal
      port: 3306
      path: main
      username: user
      password: ""
`

func writeFacts(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "facts.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write facts: %v", err)
	}
	return path
}

func baseTestConfig(factsFile string) config.Config {
	return config.Config{
		FactsFile:            factsFile,
		Sinks:                []string{"memory"},
		DatabaseRelationship: mapper.DefaultDatabaseRelationship,
		CacheRelationship:    mapper.DefaultCacheRelationship,
		SessionRelationship:  mapper.DefaultSessionRelationship,
		RedisClient:          mapper.DefaultRedisClient,
		LogLevel:             "debug",
	}
}

func TestRunMapsIntoMemorySink(t *testing.T) {
	t.Setenv("APP_URL", "")
	t.Setenv("APP_KEY", "")
	os.Unsetenv("APP_URL")
	os.Unsetenv("APP_KEY")

	app, err := New(baseTestConfig(writeFacts(t, testFacts)), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	plan, err := app.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(plan) == 0 {
		t.Fatalf("expected assignments")
	}

	memory := app.Memory()
	if memory == nil {
		t.Fatalf("expected memory sink to be configured")
	}
	env := memory.Snapshot()
	if env["APP_URL"] != "https://app.example/" {
		t.Fatalf("unexpected APP_URL %q", env["APP_URL"])
	}
	if env["DB_CONNECTION"] != "mysql" || env["DB_PORT"] != "3306" {
		t.Fatalf("unexpected database variables: %v", env)
	}
	if _, ok := os.LookupEnv("APP_URL"); ok {
		t.Fatalf("process environment must not be touched without the process sink")
	}
}

func TestRunWithoutFactsIsNoop(t *testing.T) {
	app, err := New(baseTestConfig(""), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	before := app.Memory().Snapshot()
	plan, err := app.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(plan) != 0 {
		t.Fatalf("expected no assignments, got %v", plan)
	}
	if len(app.Memory().Snapshot()) != len(before) {
		t.Fatalf("expected memory sink to be unchanged")
	}
}

func TestNewReturnsErrorForMissingFacts(t *testing.T) {
	cfg := baseTestConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing facts file")
	}
}

func TestNewReturnsErrorForUnknownSink(t *testing.T) {
	cfg := baseTestConfig("")
	cfg.Sinks = []string{"superglobals"}
	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for unknown sink")
	}

	cfg.Sinks = nil
	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing sinks")
	}
}

func TestWriteDotenv(t *testing.T) {
	var buf bytes.Buffer
	plan := []mapper.Assignment{
		{Name: "APP_KEY", Value: ""},
		{Name: "DB_PASSWORD", Value: `p"w\d`},
		{Name: "MAIL_HOST", Value: "line1\nline2"},
		{Name: "DB_USERNAME", Value: "bell\a\u2028é"},
	}

	if err := WriteDotenv(&buf, plan); err != nil {
		t.Fatalf("WriteDotenv returned error: %v", err)
	}

	want := "APP_KEY=\"\"\n" +
		"DB_PASSWORD=\"p\\\"w\\\\d\"\n" +
		"MAIL_HOST=\"line1\\nline2\"\n" +
		"DB_USERNAME=\"bell\a\u2028é\"\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestEnviron(t *testing.T) {
	got := Environ([]string{"PATH=/bin"}, []mapper.Assignment{{Name: "MAIL_PORT", Value: "25"}})
	if want := []string{"PATH=/bin", "MAIL_PORT=25"}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
