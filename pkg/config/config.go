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
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"DULCIS_APP_ENV" required:"true"`
	Port         string   `envconfig:"DULCIS_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"DULCIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"DULCIS_LOG_WARN_STACK" default:"false"`
	LogFormat    string   `envconfig:"DULCIS_LOG_FORMAT" default:"json"`
	CORSOrigins  []string `envconfig:"DULCIS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DULCIS_DB_DSN"`
	Driver string `envconfig:"DULCIS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DULCIS_DB_HOST"`
	Port     int    `envconfig:"DULCIS_DB_PORT" default:"5432"`
	User     string `envconfig:"DULCIS_DB_USER"`
	Password string `envconfig:"DULCIS_DB_PASSWORD"`
	Name     string `envconfig:"DULCIS_DB_NAME"`
	SSLMode  string `envconfig:"DULCIS_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"DULCIS_SQLITE_PATH" default:"dulcis.db"`

	MaxOpenConns    int           `envconfig:"DULCIS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DULCIS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DULCIS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DULCIS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded SQLite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"DULCIS_REDIS_URL"`
	Address      string        `envconfig:"DULCIS_REDIS_ADDR"`
	Password     string        `envconfig:"DULCIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DULCIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DULCIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DULCIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DULCIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DULCIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DULCIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DULCIS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DULCIS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"DULCIS_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"DULCIS_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	EventsTopic string `envconfig:"DULCIS_PUBSUB_EVENTS_TOPIC" default:"dulcis-domain-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"DULCIS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"DULCIS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"DULCIS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// PollInterval returns the configured poll interval as a duration.
func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
