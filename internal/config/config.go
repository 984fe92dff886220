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
	App       AppConfig
	Logger    LoggerConfig
	Site      SiteConfig
	Email     EmailConfig
	Tracker   TrackerConfig
	BotCheck  BotCheckConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
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
}

// SiteConfig identifies the site the intake forms belong to.
type SiteConfig struct {
	Name string
}

// EmailConfig holds the transactional email API settings.
type EmailConfig struct {
	Endpoint          string
	APIKey            string
	From              string
	NotificationEmail string
	SupportEmail      string
}

// TrackerConfig holds the work-item tracker API settings.
type TrackerConfig struct {
	OrgURL  string
	Project string
	PAT     string
}

// BotCheckConfig holds the bot-verification API settings.
type BotCheckConfig struct {
	SecretKey string
	VerifyURL string
	MinScore  float64
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	minScore, err := strconv.ParseFloat(getEnv("RECAPTCHA_MIN_SCORE", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RECAPTCHA_MIN_SCORE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "intake-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Site: SiteConfig{
			Name: getEnv("SITE_NAME", "Acidni.net"),
		},
		Email: EmailConfig{
			Endpoint:          os.Getenv("EMAIL_API_ENDPOINT"),
			APIKey:            os.Getenv("EMAIL_API_KEY"),
			From:              getEnv("EMAIL_FROM", "noreply@acidni.net"),
			NotificationEmail: getEnv("NOTIFICATION_EMAIL", "contact@acidni.net"),
			SupportEmail:      getEnv("SUPPORT_EMAIL", "support@acidni.net"),
		},
		Tracker: TrackerConfig{
			OrgURL:  strings.TrimRight(os.Getenv("DEVOPS_ORG_URL"), "/"),
			Project: os.Getenv("DEVOPS_PROJECT"),
			PAT:     os.Getenv("DEVOPS_PAT"),
		},
		BotCheck: BotCheckConfig{
			SecretKey: os.Getenv("RECAPTCHA_SECRET_KEY"),
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
			MinScore:  minScore,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Max:           getEnvAsInt("RATE_LIMIT_MAX", 10),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
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

// Configured reports whether the email sink can be used.
func (e EmailConfig) Configured() bool {
	return e.Endpoint != "" && e.APIKey != ""
}

// Configured reports whether the work-item tracker sink can be used.
func (t TrackerConfig) Configured() bool {
	return t.OrgURL != "" && t.Project != "" && t.PAT != ""
}

// Configured reports whether bot verification is enabled.
func (b BotCheckConfig) Configured() bool {
	return b.SecretKey != ""
}

// Window returns the limiter window duration.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowSeconds) * time.Second
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
