package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LovationAdmin/horizon-api/services"
)

type Settings struct {
	Port        string
	FrontendURL string
	Production  bool
	LogLevel    string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	EncryptionKey string

	Plaid services.PlaidConfig

	RateLimitPerMinute int
	PageSize           int
}

func Load() *Settings {
	return &Settings{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Production: os.Getenv("GIN_MODE") == "release" ||
			os.Getenv("ENVIRONMENT") == "production" ||
			os.Getenv("ENV") == "production",
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		EncryptionKey: os.Getenv("DATA_ENCRYPTION_KEY"),

		Plaid: services.PlaidConfig{
			ClientID:     os.Getenv("PLAID_CLIENT_ID"),
			Secret:       os.Getenv("PLAID_SECRET"),
			Env:          getEnv("PLAID_ENV", "sandbox"),
			Products:     getEnvList("PLAID_PRODUCTS", "transactions"),
			CountryCodes: getEnvList("PLAID_COUNTRY_CODES", "US"),
			RedirectURI:  os.Getenv("PLAID_REDIRECT_URI"),
		},

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		PageSize:           getEnvInt("PAGE_SIZE", services.DefaultPageSize),
	}
}

// Validate reports every configuration problem at once.
func (s *Settings) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(s.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", s.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if s.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL is required")
	} else if u, err := url.Parse(s.DatabaseURL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		errors = append(errors, "DATABASE_URL must be a postgres:// URL")
	}

	if len(s.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET must be at least 32 characters")
	}
	if s.JWTTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT_TTL %v: must be at least 1 minute", s.JWTTTL))
	}

	if len(s.EncryptionKey) != 32 {
		errors = append(errors, "DATA_ENCRYPTION_KEY must be exactly 32 characters")
	}

	if s.Plaid.ClientID == "" || s.Plaid.Secret == "" {
		errors = append(errors, "PLAID_CLIENT_ID and PLAID_SECRET are required")
	}
	switch s.Plaid.Env {
	case "sandbox", "production":
	default:
		errors = append(errors, fmt.Sprintf("invalid PLAID_ENV '%s': must be sandbox or production", s.Plaid.Env))
	}

	if s.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid RATE_LIMIT_PER_MINUTE %d: must be at least 1", s.RateLimitPerMinute))
	}
	if s.PageSize < 1 || s.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("invalid PAGE_SIZE %d: must be between 1 and 100", s.PageSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
