package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Gemini  GeminiConfig
	Redis   RedisConfig
	Display DisplayConfig
	Seed    SeedConfig
	Report  ReportConfig
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

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// File enables a rotating JSON log file alongside stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// GeminiConfig holds the generative model settings.
type GeminiConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values. An empty Addr keeps the generation gate in memory.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	LockTTLSecond int
}

// DisplayConfig controls how agendas are bucketed and labelled.
type DisplayConfig struct {
	Timezone string
	Locale   string
}

// SeedConfig points at an optional YAML fixture replacing the built-in seed.
type SeedConfig struct {
	Path string
}

// ReportConfig schedules the periodic metrics report. An empty Cron disables it.
type ReportConfig struct {
	Cron string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "chronoplan"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 90),
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("LOG_FILE_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", 7),
		},
		Gemini: GeminiConfig{
			APIKey:         strings.TrimSpace(getEnv("API_KEY", os.Getenv("GEMINI_API_KEY"))),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:        os.Getenv("GEMINI_BASE_URL"),
			TimeoutSeconds: getEnvAsInt("GEMINI_TIMEOUT_SECONDS", 60),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			LockTTLSecond: getEnvAsInt("REDIS_GENERATION_LOCK_TTL_SECONDS", 120),
		},
		Display: DisplayConfig{
			Timezone: getEnv("DISPLAY_TIMEZONE", "Local"),
			Locale:   getEnv("DISPLAY_LOCALE", "zh-CN"),
		},
		Seed: SeedConfig{
			Path: os.Getenv("SEED_FILE"),
		},
		Report: ReportConfig{
			Cron: getEnv("METRICS_REPORT_CRON", "@every 15m"),
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

// Timeout bounds a single model call. Zero disables the bound.
func (g GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// LockTTL caps how long a crashed replica can hold a session's generation gate.
func (r RedisConfig) LockTTL() time.Duration {
	if r.LockTTLSecond <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(r.LockTTLSecond) * time.Second
}

// Location resolves the display timezone, falling back to time.Local.
func (d DisplayConfig) Location() *time.Location {
	if d.Timezone == "" || strings.EqualFold(d.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
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
