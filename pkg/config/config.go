package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Webhook      WebhookConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MOVIESTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"MOVIESTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOVIESTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOVIESTORE_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"MOVIESTORE_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MOVIESTORE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MOVIESTORE_DB_DSN"`
	Driver string `envconfig:"MOVIESTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOVIESTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"MOVIESTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOVIESTORE_DB_USER"`
	LegacyPassword string `envconfig:"MOVIESTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOVIESTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOVIESTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOVIESTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOVIESTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOVIESTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOVIESTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. Leaving both URL and Address empty disables the
// processed-notification cache and the cron lock.
type RedisConfig struct {
	URL          string        `envconfig:"MOVIESTORE_REDIS_URL"`
	Address      string        `envconfig:"MOVIESTORE_REDIS_ADDR"`
	Password     string        `envconfig:"MOVIESTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOVIESTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOVIESTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOVIESTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOVIESTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOVIESTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOVIESTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type WebhookConfig struct {
	ProcessedCacheTTL time.Duration `envconfig:"MOVIESTORE_WEBHOOK_PROCESSED_CACHE_TTL" default:"72h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOVIESTORE_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"MOVIESTORE_CRON_INTERVAL" default:"1h"`
	StalePendingAfter time.Duration `envconfig:"MOVIESTORE_CRON_STALE_PENDING_AFTER" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
