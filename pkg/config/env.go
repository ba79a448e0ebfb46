package config

const EnvPrefix = "DULCIS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "DULCIS_APP_ENV"
	EnvPort     = "DULCIS_APP_PORT"
	EnvLogLevel = "DULCIS_LOG_LEVEL"

	EnvDBDSN    = "DULCIS_DB_DSN"
	EnvDBDriver = "DULCIS_DB_DRIVER"
	EnvDBHost   = "DULCIS_DB_HOST"
	EnvDBPort   = "DULCIS_DB_PORT"
	EnvDBUser   = "DULCIS_DB_USER"
	EnvDBPass   = "DULCIS_DB_PASSWORD"
	EnvDBName   = "DULCIS_DB_NAME"

	EnvUseSQLite   = "DULCIS_USE_SQLITE"
	EnvAutoMigrate = "DULCIS_AUTO_MIGRATE"

	EnvRedisURL = "DULCIS_REDIS_URL"

	EnvGCPProjectID      = "DULCIS_GCP_PROJECT_ID"
	EnvPubSubEventsTopic = "DULCIS_PUBSUB_EVENTS_TOPIC"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
