package platform

import (
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Facts is the YAML representation of the runtime facts served by StaticProvider.
type Facts struct {
	InRuntime       bool                        `yaml:"in_runtime"`
	ApplicationName string                      `yaml:"application_name"`
	ProjectEntropy  string                      `yaml:"project_entropy"`
	SMTPHost        string                      `yaml:"smtp_host"`
	Routes          []Route                     `yaml:"routes"`
	Relationships   map[string][]map[string]any `yaml:"relationships"`
}

// StaticProvider serves a fixed set of Facts.
type StaticProvider struct {
	facts       Facts
	credentials map[string]Credentials
}

// NewStaticProvider decodes the relationships of facts and returns a Provider over them.
// Only the first instance of each relationship is used.
func NewStaticProvider(facts Facts) (*StaticProvider, error) {
	creds := make(map[string]Credentials, len(facts.Relationships))
	for name, instances := range facts.Relationships {
		if len(instances) == 0 {
			continue
		}
		decoded, err := decodeCredentials(instances[0])
		if err != nil {
			return nil, fmt.Errorf("relationship %q: %w", name, err)
		}
		creds[name] = decoded
	}

	facts.Routes = slices.Clone(facts.Routes)
	return &StaticProvider{
		facts:       facts,
		credentials: creds,
	}, nil
}

// LoadFacts reads a YAML facts file and builds a StaticProvider from it.
func LoadFacts(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var facts Facts
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return NewStaticProvider(facts)
}

func (p *StaticProvider) InRuntime() bool {
	return p.facts.InRuntime
}

func (p *StaticProvider) ProjectEntropy() (string, bool) {
	return p.facts.ProjectEntropy, p.facts.ProjectEntropy != ""
}

func (p *StaticProvider) SMTPHost() (string, bool) {
	return p.facts.SMTPHost, p.facts.SMTPHost != ""
}

func (p *StaticProvider) ApplicationName() string {
	return p.facts.ApplicationName
}

// Routes returns a copy of the routing table.
func (p *StaticProvider) Routes() []Route {
	return slices.Clone(p.facts.Routes)
}

func (p *StaticProvider) HasRelationship(name string) bool {
	_, ok := p.credentials[name]
	return ok
}

func (p *StaticProvider) Credentials(name string) (Credentials, error) {
	creds, ok := p.credentials[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %s", ErrRelationshipNotFound, name)
	}
	return creds, nil
}

func decodeCredentials(raw map[string]any) (Credentials, error) {
	var creds Credentials
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &creds,
	})
	if err != nil {
		return Credentials{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return creds, nil
}

type absentProvider struct{}

// Absent returns a Provider reporting that the process is not running on the platform.
func Absent() Provider {
	return absentProvider{}
}

func (absentProvider) InRuntime() bool { return false }
func (absentProvider) ProjectEntropy() (string, bool) { return "", false }
func (absentProvider) SMTPHost() (string, bool) { return "", false }
func (absentProvider) ApplicationName() string { return "" }
func (absentProvider) Routes() []Route { return nil }
func (absentProvider) HasRelationship(name string) bool { return false }
func (absentProvider) Credentials(name string) (Credentials, error) {
	return Credentials{}, fmt.Errorf("%w: %s", ErrRelationshipNotFound, name)
}
