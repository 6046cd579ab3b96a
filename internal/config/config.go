// Package config loads tool configuration from a YAML file, environment
// variables, and an optional .env file.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full tool configuration.
type Config struct {
	Zendesk  ZendeskConfig  `mapstructure:"zendesk"`
	Airtable AirtableConfig `mapstructure:"airtable"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Report   ReportConfig   `mapstructure:"report"`
}

// ZendeskConfig identifies the Zendesk instance and the ticket form to
// search. The API token comes from the ZENDESK_PASSWORD environment
// variable, never from the config file.
type ZendeskConfig struct {
	Subdomain string `mapstructure:"subdomain"`
	Email     string `mapstructure:"email"`
	APIToken  string `mapstructure:"api_token"`
	FormID    string `mapstructure:"form_id"`
}

// AirtableConfig identifies the destination base, table, and view. These
// are explicit configuration, not constants baked into the uploader.
type AirtableConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseID  string `mapstructure:"base_id"`
	TableID string `mapstructure:"table_id"`
	ViewID  string `mapstructure:"view_id"`
}

// PostgresConfig points at the database used for processed-ticket tracking.
// Tracking is optional: when the connection fields are absent the analyze
// pipeline runs without duplicate prevention.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Configured reports whether enough connection fields are set to attempt a
// connection.
func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Database != "" && p.User != ""
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportConfig controls the JSON report output.
type ReportConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration with viper. Precedence: explicit config file,
// then environment variables (including those from a local .env file), then
// defaults. A missing config file is not an error; commands that talk to
// Zendesk or Airtable validate the fields they need.
func Load(v *viper.Viper) (*Config, error) {
	// A local .env is a developer convenience; absence is fine.
	_ = godotenv.Load()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("zendesk.form_id", "360003074771")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")

	_ = v.BindEnv("zendesk.api_token", "ZENDESK_PASSWORD")
	_ = v.BindEnv("airtable.api_key", "AIRTABLE_API_KEY")
	_ = v.BindEnv("postgres.host", "PG_HOST")
	_ = v.BindEnv("postgres.port", "PG_PORT")
	_ = v.BindEnv("postgres.database", "PG_DATABASE")
	_ = v.BindEnv("postgres.user", "PG_USER")
	_ = v.BindEnv("postgres.password", "PG_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, nil
}

// ValidateZendesk checks the fields every Zendesk call needs.
func (c *Config) ValidateZendesk() error {
	if c.Zendesk.Subdomain == "" {
		return fmt.Errorf("zendesk.subdomain is not configured")
	}

	if c.Zendesk.Email == "" {
		return fmt.Errorf("zendesk.email is not configured")
	}

	if c.Zendesk.APIToken == "" {
		return fmt.Errorf("ZENDESK_PASSWORD is not set")
	}

	return nil
}

// ValidateAirtable checks the fields the uploader needs once an API key is
// present. Without a key the upload stage is skipped, so nothing else is
// required.
func (c *Config) ValidateAirtable() error {
	if c.Airtable.APIKey == "" {
		return nil
	}

	if c.Airtable.BaseID == "" || c.Airtable.TableID == "" {
		return fmt.Errorf("airtable.base_id and airtable.table_id must be configured when AIRTABLE_API_KEY is set")
	}

	return nil
}
