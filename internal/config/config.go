package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigin  string
	AutoMigrate bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables, after
// preloading any of the given dotenv files that exist. Variables already set
// in the environment win over file values.
func NewConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var problems []error
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", ""),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		problems = append(problems, fmt.Errorf("TOKEN_TTL: %w", err))
	}
	cfg.TokenTTL = ttl

	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "false"))
	if err != nil {
		problems = append(problems, fmt.Errorf("AUTO_MIGRATE: %w", err))
	}
	cfg.AutoMigrate = autoMigrate

	if err := cfg.Validate(); err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once
func (c *Config) Validate() error {
	var problems []error
	if c.DatabaseURL == "" {
		problems = append(problems, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Errorf("PORT must be numeric, got %q", c.Port))
	}
	if c.TokenTTL < 0 {
		problems = append(problems, errors.New("TOKEN_TTL must not be negative"))
	}
	if c.SMTPHost != "" && c.SenderEmail == "" {
		problems = append(problems, errors.New("SENDER_EMAIL is required when SMTP_HOST is set"))
	}
	return errors.Join(problems...)
}

// MailEnabled reports whether outbound email is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
