package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps all runtime settings. It is built once in main and
// passed into components explicitly; nothing reads the environment
// after startup.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	Timezone string

	LogLevel string
	LogFile  string

	CoachBaseURL string
	CoachAPIKey  string
	CoachModel   string
	CoachTimeout time.Duration

	ReminderSpec string
}

// Load reads configuration from LEADSTAR_* environment variables with
// sane defaults. Only the database URL and JWT secret are required.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("leadstar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("jwt_issuer", "leadstar-go")
	v.SetDefault("jwt_ttl_hours", 24)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("coach_base_url", "https://api.openai.com/v1")
	v.SetDefault("coach_model", "gpt-4o-mini")
	v.SetDefault("coach_timeout_sec", 30)
	// 07:00 daily, server timezone
	v.SetDefault("reminder_spec", "0 7 * * *")

	cfg := &Config{
		Port:         v.GetString("port"),
		DatabaseURL:  strings.TrimSpace(v.GetString("database_url")),
		JWTSecret:    strings.TrimSpace(v.GetString("jwt_secret")),
		JWTIssuer:    v.GetString("jwt_issuer"),
		JWTTTL:       time.Duration(v.GetInt("jwt_ttl_hours")) * time.Hour,
		Timezone:     v.GetString("timezone"),
		LogLevel:     v.GetString("log_level"),
		LogFile:      v.GetString("log_file"),
		CoachBaseURL: strings.TrimRight(v.GetString("coach_base_url"), "/"),
		CoachAPIKey:  strings.TrimSpace(v.GetString("coach_api_key")),
		CoachModel:   v.GetString("coach_model"),
		CoachTimeout: time.Duration(v.GetInt("coach_timeout_sec")) * time.Second,
		ReminderSpec: v.GetString("reminder_spec"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("LEADSTAR_DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("LEADSTAR_JWT_SECRET is required")
	}

	return cfg, nil
}
