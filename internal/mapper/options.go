package mapper

import "go.uber.org/zap"

// Option configures the behaviour of New.
type Option func(*Mapper)

// WithDatabaseRelationship overrides the relationship mapped onto DB_* variables.
func WithDatabaseRelationship(name string) Option {
	return func(m *Mapper) {
		m.databaseRelationship = name
	}
}

// WithCacheRelationship overrides the redis relationship used for the cache driver.
func WithCacheRelationship(name string) Option {
	return func(m *Mapper) {
		m.cacheRelationship = name
	}
}

// WithSessionRelationship overrides the redis relationship used for the session driver.
func WithSessionRelationship(name string) Option {
	return func(m *Mapper) {
		m.sessionRelationship = name
	}
}

// WithRedisClient overrides the value written to REDIS_CLIENT.
func WithRedisClient(client string) Option {
	return func(m *Mapper) {
		m.redisClient = client
	}
}

// WithLogger attaches a logger for per-step debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}
