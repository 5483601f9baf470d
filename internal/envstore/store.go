package envstore

import (
	"fmt"
	"strings"
)

// headerMirrorMarker identifies names that collide with CGI-style mirrors of request headers.
const headerMirrorMarker = "HTTP_"

// Store reads and writes environment variables.
type Store interface {
	Lookuper
	Set(name, value string) error
}

// Writer is a Store that reads from a single source and fans writes out to its sinks in order.
type Writer struct {
	source Lookuper
	sinks  []Sink
}

// NewWriter builds a Writer. At least one sink is required.
func NewWriter(source Lookuper, sinks ...Sink) (*Writer, error) {
	if source == nil {
		return nil, fmt.Errorf("lookup source is required")
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("at least one sink is required")
	}
	return &Writer{
		source: source,
		sinks:  append([]Sink(nil), sinks...),
	}, nil
}

// NewSink builds the sink registered under name. Memory sinks start as a
// copy of the process environment.
func NewSink(name string) (Sink, error) {
	switch name {
	case SinkProcess:
		return NewProcessSink(), nil
	case SinkMemory:
		return NewMemorySink(Environ()), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", name)
	}
}

func (w *Writer) Lookup(name string) (string, bool) {
	return w.source.Lookup(name)
}

// Set writes the variable into every sink. The first failure is returned
// and the remaining sinks are left untouched.
func (w *Writer) Set(name, value string) error {
	if strings.Contains(name, headerMirrorMarker) {
		return &WriteError{Name: name, Err: ErrAmbiguousName}
	}
	for _, sink := range w.sinks {
		if err := sink.Set(name, value); err != nil {
			return &WriteError{Name: name, Sink: sink.Name(), Err: err}
		}
	}
	return nil
}

// Sinks returns the configured sinks in write order.
func (w *Writer) Sinks() []Sink {
	return append([]Sink(nil), w.sinks...)
}
