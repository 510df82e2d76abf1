package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "DISHCOVERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Canonical environment variable names referenced by tests and error messages.
const (
	EnvAppEnv                 = "DISHCOVERY_APP_ENV"
	EnvPort                   = "DISHCOVERY_APP_PORT"
	EnvDBDSN                  = "DISHCOVERY_DB_DSN"
	EnvDBHost                 = "DISHCOVERY_DB_HOST"
	EnvDBUser                 = "DISHCOVERY_DB_USER"
	EnvDBName                 = "DISHCOVERY_DB_NAME"
	EnvRedisURL               = "DISHCOVERY_REDIS_URL"
	EnvJWTSecret              = "DISHCOVERY_JWT_SECRET"
	EnvJWTIssuer              = "DISHCOVERY_JWT_ISSUER"
	EnvJWTExpMins             = "DISHCOVERY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "DISHCOVERY_REFRESH_TOKEN_TTL_MINUTES"
	EnvPlacesAPIKey           = "DISHCOVERY_GOOGLE_PLACES_API_KEY"
	EnvGeminiAPIKey           = "DISHCOVERY_GEMINI_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Places        PlacesConfig
	Gemini        GeminiConfig
	Discovery     DiscoveryConfig
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
	Env          string `envconfig:"DISHCOVERY_APP_ENV" required:"true"`
	Port         string `envconfig:"DISHCOVERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DISHCOVERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISHCOVERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DISHCOVERY_DB_DSN"`
	Driver string `envconfig:"DISHCOVERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DISHCOVERY_DB_HOST"`
	LegacyPort     int    `envconfig:"DISHCOVERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DISHCOVERY_DB_USER"`
	LegacyPassword string `envconfig:"DISHCOVERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"DISHCOVERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"DISHCOVERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISHCOVERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISHCOVERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISHCOVERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISHCOVERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DISHCOVERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DISHCOVERY_REDIS_ADDR"`
	Password     string        `envconfig:"DISHCOVERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISHCOVERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISHCOVERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISHCOVERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISHCOVERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISHCOVERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISHCOVERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DISHCOVERY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DISHCOVERY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DISHCOVERY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DISHCOVERY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DISHCOVERY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DISHCOVERY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DISHCOVERY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DISHCOVERY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DISHCOVERY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"DISHCOVERY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"DISHCOVERY_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"DISHCOVERY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"DISHCOVERY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"DISHCOVERY_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"DISHCOVERY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DISHCOVERY_AUTO_MIGRATE" default:"false"`
}

type PlacesConfig struct {
	APIKey  string        `envconfig:"DISHCOVERY_GOOGLE_PLACES_API_KEY"`
	BaseURL string        `envconfig:"DISHCOVERY_GOOGLE_PLACES_BASE_URL"`
	Timeout time.Duration `envconfig:"DISHCOVERY_GOOGLE_PLACES_TIMEOUT" default:"10s"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"DISHCOVERY_GEMINI_API_KEY"`
	BaseURL string        `envconfig:"DISHCOVERY_GEMINI_BASE_URL"`
	Model   string        `envconfig:"DISHCOVERY_GEMINI_MODEL" default:"gemini-2.0-flash"`
	Timeout time.Duration `envconfig:"DISHCOVERY_GEMINI_TIMEOUT" default:"15s"`
}

type DiscoveryConfig struct {
	SearchRadiusMeters int `envconfig:"DISHCOVERY_SEARCH_RADIUS_METERS" default:"2000"`
	MaxResults         int `envconfig:"DISHCOVERY_MAX_RESULTS" default:"5"`
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
