package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config is built once at startup and passed down to every component.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Admin  AdminConfig  `mapstructure:"admin"`
	Store  StoreConfig  `mapstructure:"store"`
	Mail   MailConfig   `mapstructure:"mail"`
	MSAds  MSAdsConfig  `mapstructure:"msads"`
	Queue  QueueConfig  `mapstructure:"queue"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
	AdminRatePerMinute int           `mapstructure:"admin_rate_per_minute"`
	AdminBurst         int           `mapstructure:"admin_burst"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
}

type AdminConfig struct {
	Password string `mapstructure:"password"`
}

// StoreConfig selects the lead/config backend: "xlsx" (workbook file) or "postgres".
type StoreConfig struct {
	Driver       string `mapstructure:"driver"`
	WorkbookPath string `mapstructure:"workbook_path"`
	DatabaseURL  string `mapstructure:"database_url"`
}

// MailConfig selects the notification transport: "smtp" or "resend".
type MailConfig struct {
	Provider     string        `mapstructure:"provider"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Pass         string        `mapstructure:"pass"`
	ResendAPIKey string        `mapstructure:"resend_api_key"`
	From         string        `mapstructure:"from"`
	FromName     string        `mapstructure:"from_name"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// MSAdsConfig holds the Microsoft Advertising offline-conversion credentials.
// Missing client id, secret or refresh token disables the integration.
type MSAdsConfig struct {
	ClientID           string        `mapstructure:"client_id"`
	ClientSecret       string        `mapstructure:"client_secret"`
	RefreshToken       string        `mapstructure:"refresh_token"`
	TokenURL           string        `mapstructure:"token_url"`
	APIBaseURL         string        `mapstructure:"api_base_url"`
	ReportingBaseURL   string        `mapstructure:"reporting_base_url"`
	DeveloperToken     string        `mapstructure:"developer_token"`
	CustomerID         string        `mapstructure:"customer_id"`
	AccountID          string        `mapstructure:"account_id"`
	ConversionName     string        `mapstructure:"conversion_name"`
	CurrencyCode       string        `mapstructure:"currency_code"`
	Timeout            time.Duration `mapstructure:"timeout"`
	ReportPollAttempts int           `mapstructure:"report_poll_attempts"`
	ReportPollInterval time.Duration `mapstructure:"report_poll_interval"`
	ReportTimeout      time.Duration `mapstructure:"report_timeout"`
}

// Configured reports whether the OAuth refresh credentials are all present.
func (c MSAdsConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// QueueConfig points at RabbitMQ. An empty URL disables publishing.
// ReplayInterval 0 disables the in-process failed intake replay.
type QueueConfig struct {
	URL            string        `mapstructure:"url"`
	ReplayInterval time.Duration `mapstructure:"replay_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"server.port":                  8080,
	"server.allowed_origins":       []string{"*"},
	"server.admin_rate_per_minute": 60,
	"server.admin_burst":           20,
	"server.request_timeout":       30 * time.Second,
	"admin.password":               "",
	"store.driver":                 "xlsx",
	"store.workbook_path":          "leads.xlsx",
	"store.database_url":           "",
	"mail.provider":                "smtp",
	"mail.host":                    "",
	"mail.port":                    587,
	"mail.user":                    "",
	"mail.pass":                    "",
	"mail.resend_api_key":          "",
	"mail.from":                    "nepasrepondre@oxyllium.fr",
	"mail.from_name":               "Oxyllium Leads",
	"mail.timeout":                 15 * time.Second,
	"msads.client_id":              "",
	"msads.client_secret":          "",
	"msads.refresh_token":          "",
	"msads.token_url":              "https://login.microsoftonline.com/common/oauth2/v2.0/token",
	"msads.api_base_url":           "https://campaign.api.bingads.microsoft.com",
	"msads.reporting_base_url":     "https://reporting.api.bingads.microsoft.com",
	"msads.developer_token":        "",
	"msads.customer_id":            "",
	"msads.account_id":             "",
	"msads.conversion_name":        "Lead approuvé",
	"msads.currency_code":          "EUR",
	"msads.timeout":                10 * time.Second,
	"msads.report_poll_attempts":   10,
	"msads.report_poll_interval":   2 * time.Second,
	"msads.report_timeout":         2 * time.Minute,
	"queue.url":                    "",
	"queue.replay_interval":        5 * time.Minute,
	"log.level":                    "info",
	"log.format":                   "json",
}

// Load reads .env (if any), config.yaml (if any) and the environment.
// Keys map to env vars with "." replaced by "_": mail.host is MAIL_HOST.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// Names kept from the previous deployment.
	_ = v.BindEnv("store.database_url", "DATABASE_URL", "STORE_DATABASE_URL")
	_ = v.BindEnv("admin.password", "ADMIN_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects option values no component can run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "xlsx":
		if c.Store.WorkbookPath == "" {
			return fmt.Errorf("config: store.workbook_path is required for the xlsx driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	switch c.Mail.Provider {
	case "smtp", "resend":
	default:
		return fmt.Errorf("config: unknown mail provider %q", c.Mail.Provider)
	}
	return nil
}

// NewLogger builds the process logger. format "console" is human readable, anything else is JSON.
func NewLogger(cfg LogConfig) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

// NewLoggerTo is NewLogger writing to out; the CLI logs to stderr so stdout stays parseable.
func NewLoggerTo(cfg LogConfig, out io.Writer) zerolog.Logger {
	return newLogger(cfg, out)
}

func newLogger(cfg LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "oxyllium-leads").Logger()
}
