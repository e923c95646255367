package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Search    SearchConfig    `yaml:"search"`
	Auth      AuthConfig      `yaml:"auth"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Stats     StatsConfig     `yaml:"stats"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig contains Redis settings. An empty Addr disables Redis-backed
// features (stats cache, live notification feed).
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// AuthConfig contains JWT settings
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	Issuer        string `yaml:"issuer"`
}

// WorkflowConfig contains the default policy applied by the visit approval
// workflow when the field report is missing data.
type WorkflowConfig struct {
	FallbackLocationCode string `yaml:"fallback_location_code"`
	FallbackOwnerName    string `yaml:"fallback_owner_name"`
	FallbackPhone        string `yaml:"fallback_phone"`
	TempPasswordLength   int    `yaml:"temp_password_length"`
	MaxLoginIDAttempts   int    `yaml:"max_login_id_attempts"`
}

// SchedulerConfig contains settings for the daily stale-visit sweep
type SchedulerConfig struct {
	Enabled        bool   `yaml:"enabled"`
	DailyRunTime   string `yaml:"daily_run_time"`
	StaleAfterDays int    `yaml:"stale_after_days"`
}

// TelegramConfig contains the optional ops-alert bot settings. An empty
// token disables alerts.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// StatsConfig contains dashboard stats cache settings
type StatsConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8085",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "rental_user",
			Password: "rental_pass",
			Database: "rental_db",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			TokenTTLHours: 72,
			Issuer:        "rental-portal",
		},
		Workflow: WorkflowConfig{
			FallbackLocationCode: "GEN",
			FallbackOwnerName:    "Owner",
			FallbackPhone:        "0000000000",
			TempPasswordLength:   8,
			MaxLoginIDAttempts:   5,
		},
		Scheduler: SchedulerConfig{
			Enabled:        false,
			DailyRunTime:   "02:00",
			StaleAfterDays: 3,
		},
		Stats: StatsConfig{
			CacheTTLSeconds: 30,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// TokenTTL returns the JWT lifetime as a duration
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// CacheTTL returns the stats cache lifetime as a duration
func (c *StatsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// StaleAfter returns the visit escalation threshold as a duration
func (c *SchedulerConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterDays) * 24 * time.Hour
}
