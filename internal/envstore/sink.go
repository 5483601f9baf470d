package envstore

import (
	"maps"
	"os"
	"strings"
	"sync"
)

// Sink names accepted by NewSink.
const (
	SinkProcess = "process"
	SinkMemory  = "memory"
)

// Sink receives environment writes.
type Sink interface {
	Name() string
	Set(name, value string) error
}

// Lookuper reads environment variables.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// ProcessSink writes into the environment of the current process.
type ProcessSink struct {
	setenv    func(key, value string) error
	lookupEnv func(key string) (string, bool)
}

// NewProcessSink returns a sink backed by os.Setenv and os.LookupEnv.
func NewProcessSink() *ProcessSink {
	return &ProcessSink{
		setenv:    os.Setenv,
		lookupEnv: os.LookupEnv,
	}
}

func (s *ProcessSink) Name() string {
	return SinkProcess
}

func (s *ProcessSink) Set(name, value string) error {
	return s.setenv(name, value)
}

func (s *ProcessSink) Lookup(name string) (string, bool) {
	return s.lookupEnv(name)
}

// MemorySink keeps variables in-memory and guards access with a RWMutex.
type MemorySink struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMemorySink initialises a sink with a copy of seed.
func NewMemorySink(seed map[string]string) *MemorySink {
	vars := make(map[string]string, len(seed))
	maps.Copy(vars, seed)
	return &MemorySink{vars: vars}
}

func (s *MemorySink) Name() string {
	return SinkMemory
}

func (s *MemorySink) Set(name, value string) error {
	s.mu.Lock()
	s.vars[name] = value
	s.mu.Unlock()
	return nil
}

func (s *MemorySink) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.vars[name]
	return value, ok
}

// Snapshot returns a defensive copy of the stored variables.
func (s *MemorySink) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.vars)
}

// Environ returns the current process environment as a map.
func Environ() map[string]string {
	return parseEnviron(os.Environ())
}

func parseEnviron(pairs []string) map[string]string {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}
	return vars
}
