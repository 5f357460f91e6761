package config

// EnvPrefix is the envconfig prefix shared by every STOCKFLOW_* variable.
const EnvPrefix = "stockflow"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "STOCKFLOW_APP_ENV"
	EnvPort     = "STOCKFLOW_APP_PORT"
	EnvDBDSN    = "STOCKFLOW_DB_DSN"
	EnvDBHost   = "STOCKFLOW_DB_HOST"
	EnvDBUser   = "STOCKFLOW_DB_USER"
	EnvDBName   = "STOCKFLOW_DB_NAME"
	EnvRedisURL = "STOCKFLOW_REDIS_URL"

	EnvJWTSecret              = "STOCKFLOW_JWT_SECRET"
	EnvJWTIssuer              = "STOCKFLOW_JWT_ISSUER"
	EnvJWTExpMins             = "STOCKFLOW_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "STOCKFLOW_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
