// Package config provides configuration management for the investment digest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "investment-digest/internal/errors"
	"investment-digest/internal/security"
	"investment-digest/pkg/utils"
)

// Records source kinds.
const (
	SourceNotion   = "notion"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Email transport kinds.
const (
	TransportResend = "resend"
	TransportSMTP   = "smtp"
)

// Config holds all application configuration.
type Config struct {
	Notion NotionConfig `mapstructure:"notion"`
	Source SourceConfig `mapstructure:"source"`
	Email  EmailConfig  `mapstructure:"email"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

// NotionConfig holds the hosted records store settings.
type NotionConfig struct {
	APIKey     string `mapstructure:"api_key"`
	DatabaseID string `mapstructure:"database_id"`
	BaseURL    string `mapstructure:"base_url"`
	Version    string `mapstructure:"version"`
}

// SourceConfig selects where records are read from.
type SourceConfig struct {
	Kind        string `mapstructure:"kind"` // notion, sqlite, postgres
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
	Table       string `mapstructure:"table"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Transport    string     `mapstructure:"transport"` // resend, smtp
	ResendAPIKey string     `mapstructure:"resend_api_key"`
	ResendURL    string     `mapstructure:"resend_url"`
	From         string     `mapstructure:"from"`
	To           string     `mapstructure:"to"`
	SMTP         SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ReportConfig holds rendering settings.
type ReportConfig struct {
	Currency  string        `mapstructure:"currency"`
	Timezone  string        `mapstructure:"timezone"`
	SourceURL string        `mapstructure:"source_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Setting is a required configuration value and the environment variable that supplies it.
type Setting struct {
	Name  string
	Value string
}

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	"notion.api_key":       "NOTION_API_KEY",
	"notion.database_id":   "NOTION_DATABASE_ID",
	"notion.base_url":      "NOTION_BASE_URL",
	"notion.version":       "NOTION_VERSION",
	"source.kind":          "RECORDS_SOURCE",
	"source.sqlite_path":   "RECORDS_SQLITE_PATH",
	"source.postgres_url":  "RECORDS_POSTGRES_URL",
	"source.table":         "RECORDS_TABLE",
	"email.transport":      "EMAIL_TRANSPORT",
	"email.resend_api_key": "RESEND_API_KEY",
	"email.resend_url":     "RESEND_API_URL",
	"email.from":           "REPORT_EMAIL_FROM",
	"email.to":             "REPORT_EMAIL_TO",
	"email.smtp.host":      "SMTP_HOST",
	"email.smtp.port":      "SMTP_PORT",
	"email.smtp.username":  "SMTP_USERNAME",
	"email.smtp.password":  "SMTP_PASSWORD",
	"report.currency":      "REPORT_CURRENCY",
	"report.timezone":      "REPORT_TIMEZONE",
	"report.source_url":    "REPORT_SOURCE_URL",
	"report.timeout":       "REPORT_TIMEOUT",
	"log.level":            "LOG_LEVEL",
	"log.file":             "LOG_FILE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("notion.base_url", "https://api.notion.com/v1")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("source.kind", SourceNotion)
	v.SetDefault("source.table", "investments")
	v.SetDefault("email.transport", TransportResend)
	v.SetDefault("email.resend_url", "https://api.resend.com")
	v.SetDefault("email.from", "Investment Tracker <onboarding@resend.dev>")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("report.currency", utils.DefaultCurrency)
	v.SetDefault("report.timeout", 30*time.Second)
	v.SetDefault("log.level", "warn")
}

// Load builds the configuration from an optional .env file, an optional
// config file and the environment. Real environment variables win over .env.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return load(configFile)
}

func load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if ext := strings.TrimPrefix(filepath.Ext(configFile), "."); ext == "" {
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	c.Email.Transport = strings.ToLower(strings.TrimSpace(c.Email.Transport))
	c.Report.Currency = strings.ToUpper(strings.TrimSpace(c.Report.Currency))
	c.Notion.DatabaseID = strings.TrimSpace(c.Notion.DatabaseID)
	c.Email.To = strings.TrimSpace(c.Email.To)
}

// RequiredSettings lists the settings the selected source and transport need.
func (c *Config) RequiredSettings() []Setting {
	var settings []Setting

	switch c.Source.Kind {
	case SourceSQLite:
		settings = append(settings, Setting{"RECORDS_SQLITE_PATH", c.Source.SQLitePath})
	case SourcePostgres:
		settings = append(settings, Setting{"RECORDS_POSTGRES_URL", c.Source.PostgresURL})
	default:
		settings = append(settings,
			Setting{"NOTION_API_KEY", c.Notion.APIKey},
			Setting{"NOTION_DATABASE_ID", c.Notion.DatabaseID},
		)
	}

	switch c.Email.Transport {
	case TransportSMTP:
		settings = append(settings, Setting{"SMTP_HOST", c.Email.SMTP.Host})
	default:
		settings = append(settings, Setting{"RESEND_API_KEY", c.Email.ResendAPIKey})
	}

	settings = append(settings, Setting{"REPORT_EMAIL_TO", c.Email.To})
	return settings
}

// Missing returns the names of required settings that are empty.
func (c *Config) Missing() []string {
	var missing []string
	for _, s := range c.RequiredSettings() {
		if strings.TrimSpace(s.Value) == "" {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// Validate validates the configuration. A *errors.ConfigError is returned when
// required settings are absent.
func (c *Config) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return apperrors.NewConfigError(missing)
	}
	return c.ValidateValues()
}

// ValidateValues checks the values that are present, ignoring missing ones.
func (c *Config) ValidateValues() error {
	switch c.Source.Kind {
	case SourceNotion:
		if c.Notion.DatabaseID != "" {
			if err := security.ValidateCollectionID(c.Notion.DatabaseID); err != nil {
				return err
			}
		}
	case SourceSQLite, SourcePostgres:
		if err := security.ValidateIdentifier(c.Source.Table); err != nil {
			return err
		}
	default:
		return apperrors.NewValidationError("source.kind", c.Source.Kind, "must be notion, sqlite or postgres")
	}

	switch c.Email.Transport {
	case TransportResend, TransportSMTP:
	default:
		return apperrors.NewValidationError("email.transport", c.Email.Transport, "must be resend or smtp")
	}

	if c.Email.To != "" {
		if err := security.ValidateAddress("email.to", c.Email.To); err != nil {
			return err
		}
	}
	if err := security.ValidateAddress("email.from", c.Email.From); err != nil {
		return err
	}

	if !utils.IsKnownCurrency(c.Report.Currency) {
		return apperrors.NewValidationError("report.currency", c.Report.Currency, "unknown currency code")
	}
	if _, ok := utils.LoadLocation(c.Report.Timezone); !ok {
		return apperrors.NewValidationError("report.timezone", c.Report.Timezone, "unknown time zone")
	}
	if c.Report.Timeout <= 0 {
		return apperrors.NewValidationError("report.timeout", c.Report.Timeout, "must be positive")
	}
	return nil
}

// CollectionID is the identifier passed to the records source.
func (c *Config) CollectionID() string {
	switch c.Source.Kind {
	case SourceSQLite, SourcePostgres:
		return c.Source.Table
	default:
		return c.Notion.DatabaseID
	}
}

// SourceURL is the link printed in the report footer.
func (c *Config) SourceURL() string {
	if c.Report.SourceURL != "" {
		return c.Report.SourceURL
	}
	switch c.Source.Kind {
	case SourceSQLite:
		if abs, err := filepath.Abs(c.Source.SQLitePath); err == nil {
			return "file://" + filepath.ToSlash(abs)
		}
		return "file://" + c.Source.SQLitePath
	case SourcePostgres:
		return security.MaskString(c.Source.PostgresURL)
	default:
		if c.Notion.DatabaseID == "" {
			return "https://www.notion.so"
		}
		return "https://www.notion.so/" + security.CompactCollectionID(c.Notion.DatabaseID)
	}
}

// Location returns the zone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, _ := utils.LoadLocation(c.Report.Timezone)
	return loc
}
