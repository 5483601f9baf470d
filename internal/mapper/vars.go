package mapper

// Environment variables produced by the mapper.
const (
	EnvAppURL              = "APP_URL"
	EnvAppKey              = "APP_KEY"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"

	EnvDBConnection = "DB_CONNECTION"
	EnvDBHost       = "DB_HOST"
	EnvDBPort       = "DB_PORT"
	EnvDBDatabase   = "DB_DATABASE"
	EnvDBUsername   = "DB_USERNAME"
	EnvDBPassword   = "DB_PASSWORD"

	EnvCacheDriver   = "CACHE_DRIVER"
	EnvSessionDriver = "SESSION_DRIVER"
	EnvRedisClient   = "REDIS_CLIENT"
	EnvRedisHost     = "REDIS_HOST"
	EnvRedisPort     = "REDIS_PORT"

	EnvMailDriver     = "MAIL_DRIVER"
	EnvMailHost       = "MAIL_HOST"
	EnvMailPort       = "MAIL_PORT"
	EnvMailEncryption = "MAIL_ENCRYPTION"
)

const (
	appKeyPrefix       = "base64:"
	appKeyLength       = 32
	secureCookieOn     = "1"
	redisDriver        = "redis"
	mailDriver         = "smtp"
	mailPort           = "25"
	mailEncryptionNone = "0"
)

// Default relationship names and redis client.
const (
	DefaultDatabaseRelationship = "database"
	DefaultCacheRelationship    = "rediscache"
	DefaultSessionRelationship  = "redissession"
	DefaultRedisClient          = "phpredis"
)

// sensitive lists variables whose values are never logged.
var sensitive = map[string]struct{}{
	EnvAppKey:     {},
	EnvDBPassword: {},
}
