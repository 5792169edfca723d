package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Redis      RedisConfig
	Migrations MigrationsConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory". The memory driver keeps everything
	// in process and is for local runs only.
	Driver string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type AuthConfig struct {
	Secret         string
	TokenTTL       time.Duration
	GoogleClientID string
	// UseStubVerifier swaps the Google verifier for the fixed test identity.
	UseStubVerifier bool
	CookieSecure    bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type MigrationsConfig struct {
	Dir string
}

const minSecretLen = 32

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Config | .env not loaded: %v", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		invalid = append(invalid, key)
		return def
	}
	i32 := func(key string) int32 {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return 0
		}
		return int32(v)
	}
	flag := func(key string) bool {
		v, err := strconv.ParseBool(strings.TrimSpace(getenv(key)))
		return err == nil && v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	driver := strings.ToLower(opt("DB_DRIVER", DriverPostgres))
	dbReq := req
	switch driver {
	case DriverPostgres:
	case DriverMemory:
		dbReq = func(key string) string { return opt(key, "") }
	default:
		invalid = append(invalid, "DB_DRIVER")
	}

	cfg.Database = DatabaseConfig{
		Driver:     driver,
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     dbReq("DB_NAME"),
		DBUser:     dbReq("DB_USER"),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 0),
		PoolMaxConns:          i32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          i32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Auth = AuthConfig{
		Secret:          req("AUTH_SECRET"),
		TokenTTL:        dur("AUTH_TOKEN_TTL", 7*24*time.Hour),
		GoogleClientID:  opt("GOOGLE_CLIENT_ID", ""),
		UseStubVerifier: flag("AUTH_STUB"),
		CookieSecure:    cfg.App.Environment == "production",
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		TTL:      dur("REDIS_TTL", 600*time.Second),
	}

	cfg.Migrations = MigrationsConfig{
		Dir: opt("MIGRATIONS_DIR", "migrations"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if cfg.Auth.Secret != "" && len(cfg.Auth.Secret) < minSecretLen {
		invalid = append(invalid, "AUTH_SECRET")
	}
	if !cfg.Auth.UseStubVerifier && cfg.Auth.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
