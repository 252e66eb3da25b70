package config

// EnvPrefix scopes every environment variable read by Load.
const EnvPrefix = "MONOSHELF"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "MONOSHELF_APP_ENV"
	EnvPort      = "MONOSHELF_APP_PORT"
	EnvDBDSN     = "MONOSHELF_DB_DSN"
	EnvDBHost    = "MONOSHELF_DB_HOST"
	EnvDBUser    = "MONOSHELF_DB_USER"
	EnvDBName    = "MONOSHELF_DB_NAME"
	EnvRedisURL  = "MONOSHELF_REDIS_URL"
	EnvJWTSecret = "MONOSHELF_JWT_SECRET"
	EnvJWTIssuer = "MONOSHELF_JWT_ISSUER"
	EnvJWTExp    = "MONOSHELF_JWT_EXPIRATION_MINUTES"

	EnvGitHubClientID     = "MONOSHELF_GITHUB_CLIENT_ID"
	EnvGitHubClientSecret = "MONOSHELF_GITHUB_CLIENT_SECRET"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
