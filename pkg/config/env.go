package config

const (
	EnvPrefix = "MOVIESTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "MOVIESTORE_APP_ENV"
	EnvPort     = "MOVIESTORE_APP_PORT"
	EnvLogLevel = "MOVIESTORE_LOG_LEVEL"

	EnvDBDSN  = "MOVIESTORE_DB_DSN"
	EnvDBHost = "MOVIESTORE_DB_HOST"
	EnvDBPort = "MOVIESTORE_DB_PORT"
	EnvDBUser = "MOVIESTORE_DB_USER"
	EnvDBPass = "MOVIESTORE_DB_PASSWORD"
	EnvDBName = "MOVIESTORE_DB_NAME"

	EnvRedisURL  = "MOVIESTORE_REDIS_URL"
	EnvRedisAddr = "MOVIESTORE_REDIS_ADDR"

	EnvWebhookCacheTTL = "MOVIESTORE_WEBHOOK_PROCESSED_CACHE_TTL"
	EnvCronInterval    = "MOVIESTORE_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
