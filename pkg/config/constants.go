package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "THESISVAULT_APP_ENV"
	EnvPort                   = "THESISVAULT_APP_PORT"
	EnvDBDSN                  = "THESISVAULT_DB_DSN"
	EnvDBHost                 = "THESISVAULT_DB_HOST"
	EnvDBUser                 = "THESISVAULT_DB_USER"
	EnvDBName                 = "THESISVAULT_DB_NAME"
	EnvRedisURL               = "THESISVAULT_REDIS_URL"
	EnvJWTSecret              = "THESISVAULT_JWT_SECRET"
	EnvJWTIssuer              = "THESISVAULT_JWT_ISSUER"
	EnvJWTExpMins             = "THESISVAULT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "THESISVAULT_REFRESH_TOKEN_TTL_MINUTES"
	EnvStorageBaseURL         = "THESISVAULT_STORAGE_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
