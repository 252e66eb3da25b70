package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	GitHub        GitHubConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"MONOSHELF_APP_ENV" required:"true"`
	Port         string `envconfig:"MONOSHELF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MONOSHELF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MONOSHELF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MONOSHELF_DB_DSN"`

	Host     string `envconfig:"MONOSHELF_DB_HOST"`
	Port     int    `envconfig:"MONOSHELF_DB_PORT" default:"5432"`
	User     string `envconfig:"MONOSHELF_DB_USER"`
	Password string `envconfig:"MONOSHELF_DB_PASSWORD"`
	Name     string `envconfig:"MONOSHELF_DB_NAME"`
	SSLMode  string `envconfig:"MONOSHELF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MONOSHELF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MONOSHELF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MONOSHELF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MONOSHELF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MONOSHELF_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MONOSHELF_REDIS_ADDR"`
	Password     string        `envconfig:"MONOSHELF_REDIS_PASSWORD"`
	DB           int           `envconfig:"MONOSHELF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MONOSHELF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MONOSHELF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MONOSHELF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MONOSHELF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MONOSHELF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MONOSHELF_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MONOSHELF_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MONOSHELF_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MONOSHELF_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// GitHubConfig carries the OAuth app credentials used for sign-in.
type GitHubConfig struct {
	ClientID     string        `envconfig:"MONOSHELF_GITHUB_CLIENT_ID" required:"true"`
	ClientSecret string        `envconfig:"MONOSHELF_GITHUB_CLIENT_SECRET" required:"true"`
	APIBaseURL   string        `envconfig:"MONOSHELF_GITHUB_API_BASE_URL" default:"https://api.github.com"`
	OAuthBaseURL string        `envconfig:"MONOSHELF_GITHUB_OAUTH_BASE_URL" default:"https://github.com"`
	HTTPTimeout  time.Duration `envconfig:"MONOSHELF_GITHUB_HTTP_TIMEOUT" default:"10s"`
}

type AuthRateLimitConfig struct {
	SignInWindow  time.Duration `envconfig:"MONOSHELF_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SignInIPLimit int           `envconfig:"MONOSHELF_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MONOSHELF_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MONOSHELF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if parts[env] == "" {
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
