package mapper

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/platformsh-env/internal/envstore"
	"github.com/eugenenazirov/platformsh-env/internal/platform"
)

// Assignment is a single environment variable write.
type Assignment struct {
	Name  string
	Value string
}

// Mapper derives framework environment variables from platform facts.
type Mapper struct {
	provider             platform.Provider
	databaseRelationship string
	cacheRelationship    string
	sessionRelationship  string
	redisClient          string
	logger               *zap.Logger
}

// New creates a Mapper reading facts from provider.
func New(provider platform.Provider, opts ...Option) *Mapper {
	m := &Mapper{
		provider:             provider,
		databaseRelationship: DefaultDatabaseRelationship,
		cacheRelationship:    DefaultCacheRelationship,
		sessionRelationship:  DefaultSessionRelationship,
		redisClient:          DefaultRedisClient,
		logger:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Plan returns the assignments to perform, in order, given the current
// environment. It does not write anything.
func (m *Mapper) Plan(env envstore.Lookuper) ([]Assignment, error) {
	if !m.provider.InRuntime() {
		m.logger.Debug("not running on the platform, nothing to map")
		return nil, nil
	}

	var plan []Assignment
	plan = append(plan, m.planAppURL(env)...)
	plan = append(plan, m.planAppKey(env), m.planSecureCookie(env))

	steps := []func() ([]Assignment, error){
		m.planDatabase,
		m.planCache,
		m.planSession,
	}
	for _, step := range steps {
		assignments, err := step()
		if err != nil {
			return nil, err
		}
		plan = append(plan, assignments...)
	}

	plan = append(plan, m.planMail()...)
	return plan, nil
}

// Run plans against store and applies the result to it. It returns the
// assignments that were written.
func (m *Mapper) Run(store envstore.Store) ([]Assignment, error) {
	plan, err := m.Plan(store)
	if err != nil {
		return nil, err
	}
	if err := Apply(store, plan); err != nil {
		return nil, err
	}

	for _, a := range plan {
		if _, ok := sensitive[a.Name]; ok {
			m.logger.Debug("variable set", zap.String("name", a.Name))
			continue
		}
		m.logger.Debug("variable set", zap.String("name", a.Name), zap.String("value", a.Value))
	}
	return plan, nil
}

// Apply writes the assignments in order and stops at the first failure.
func Apply(store envstore.Store, plan []Assignment) error {
	for _, a := range plan {
		if err := store.Set(a.Name, a.Value); err != nil {
			return err
		}
	}
	return nil
}

// planAppURL picks the first upstream route for this application. Wildcard
// routes are not matched.
func (m *Mapper) planAppURL(env envstore.Lookuper) []Assignment {
	if current, _ := env.Lookup(EnvAppURL); current != "" {
		return nil
	}

	app := m.provider.ApplicationName()
	for _, route := range m.provider.Routes() {
		if !hasHost(route.URL) {
			continue
		}
		if route.Type == platform.RouteTypeUpstream && route.Upstream == app {
			m.logger.Debug("base url resolved from routes", zap.String("url", route.URL))
			return []Assignment{{Name: EnvAppURL, Value: route.URL}}
		}
	}
	return nil
}

// planAppKey always yields an APP_KEY assignment, possibly empty.
func (m *Mapper) planAppKey(env envstore.Lookuper) Assignment {
	secret, _ := env.Lookup(EnvAppKey)
	if secret == "" {
		if entropy, ok := m.provider.ProjectEntropy(); ok {
			key, err := deriveAppKey(entropy)
			if err != nil {
				m.logger.Warn("project entropy cannot be decoded, APP_KEY left empty", zap.Error(err))
			}
			secret = key
		}
	}
	return Assignment{Name: EnvAppKey, Value: secret}
}

// planSecureCookie keeps any value already present, including an empty one.
func (m *Mapper) planSecureCookie(env envstore.Lookuper) Assignment {
	value, ok := env.Lookup(EnvSessionSecureCookie)
	if !ok {
		value = secureCookieOn
	}
	return Assignment{Name: EnvSessionSecureCookie, Value: value}
}

func (m *Mapper) planDatabase() ([]Assignment, error) {
	creds, ok, err := m.credentials(m.databaseRelationship)
	if !ok || err != nil {
		return nil, err
	}

	return []Assignment{
		{Name: EnvDBConnection, Value: creds.Scheme},
		{Name: EnvDBHost, Value: creds.Host},
		{Name: EnvDBPort, Value: creds.Port},
		{Name: EnvDBDatabase, Value: creds.Path},
		{Name: EnvDBUsername, Value: creds.Username},
		{Name: EnvDBPassword, Value: creds.Password},
	}, nil
}

func (m *Mapper) planCache() ([]Assignment, error) {
	return m.planRedis(m.cacheRelationship, EnvCacheDriver)
}

func (m *Mapper) planSession() ([]Assignment, error) {
	return m.planRedis(m.sessionRelationship, EnvSessionDriver)
}

func (m *Mapper) planRedis(relationship, driverVar string) ([]Assignment, error) {
	creds, ok, err := m.credentials(relationship)
	if !ok || err != nil {
		return nil, err
	}

	return []Assignment{
		{Name: driverVar, Value: redisDriver},
		{Name: EnvRedisClient, Value: m.redisClient},
		{Name: EnvRedisHost, Value: creds.Host},
		{Name: EnvRedisPort, Value: creds.Port},
	}, nil
}

// planMail overwrites any existing mail configuration.
func (m *Mapper) planMail() []Assignment {
	host, ok := m.provider.SMTPHost()
	if !ok {
		return nil
	}

	return []Assignment{
		{Name: EnvMailDriver, Value: mailDriver},
		{Name: EnvMailHost, Value: host},
		{Name: EnvMailPort, Value: mailPort},
		{Name: EnvMailEncryption, Value: mailEncryptionNone},
	}
}

func (m *Mapper) credentials(relationship string) (platform.Credentials, bool, error) {
	if !m.provider.HasRelationship(relationship) {
		m.logger.Debug("relationship not defined, skipping", zap.String("relationship", relationship))
		return platform.Credentials{}, false, nil
	}

	creds, err := m.provider.Credentials(relationship)
	if err != nil {
		return platform.Credentials{}, false, fmt.Errorf("credentials for %q: %w", relationship, err)
	}
	m.logger.Debug("relationship mapped", zap.String("relationship", relationship))
	return creds, true, nil
}

// deriveAppKey truncates the decoded entropy to the framework's key length.
// Padding is optional. Empty entropy yields no key.
func deriveAppKey(entropy string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(entropy), "="))
	if err != nil {
		return "", fmt.Errorf("decode entropy: %w", err)
	}
	if len(raw) == 0 {
		return "", nil
	}
	if len(raw) > appKeyLength {
		raw = raw[:appKeyLength]
	}
	return appKeyPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

func hasHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Hostname() != ""
}
