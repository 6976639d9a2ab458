package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App    AppConfig
	Store  StoreConfig
	Logger LoggerConfig
	Admin  AdminConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig holds connection values for the directory store. The hosted
// backend is the default; setting PostgresDSN switches to a direct database
// connection instead.
type StoreConfig struct {
	SupabaseURL        string
	SupabaseAnonKey    string
	HTTPTimeoutSeconds int
	PostgresDSN        string
	MaxConns           int32
	MinConns           int32
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AdminConfig defines the shared admin secret.
type AdminConfig struct {
	Password string
}

// Load reads configuration from environment variables, applying defaults where possible.
// The placeholder store endpoint and the fallback admin password mirror the
// sandbox deployment defaults; production sets real values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "clinic-admin-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			SupabaseURL:        getEnv("SUPABASE_URL", "https://placeholder.supabase.co"),
			SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", "placeholder-key"),
			HTTPTimeoutSeconds: getEnvAsInt("STORE_HTTP_TIMEOUT_SECONDS", 15),
			PostgresDSN:        os.Getenv("POSTGRES_DSN"),
			MaxConns:           int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:           int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			Password: getEnv("ADMIN_PASSWORD", "app_password"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsProduction reports whether the service runs with the production flag.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// HTTPTimeout returns the hosted store client timeout.
func (s StoreConfig) HTTPTimeout() time.Duration {
	if s.HTTPTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
