// Package config loads settings from .env, the environment and an optional
// config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FinalizeWebhook = "webhook"
	FinalizeQueue   = "queue"
	FinalizeSMTP    = "smtp"

	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	HTTP       HTTPConfig       `mapstructure:"http"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Automation AutomationConfig `mapstructure:"automation"`
	AI         AIConfig         `mapstructure:"ai"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	Drafts     DraftsConfig     `mapstructure:"drafts"`
	Sweeper    SweeperConfig    `mapstructure:"sweeper"`
	Intake     IntakeConfig     `mapstructure:"intake"`
	Debug      bool             `mapstructure:"debug"`
	JSON       bool             `mapstructure:"json"`
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	AuthUserHeader string        `mapstructure:"auth-user-header"`
	AllowedOrigins []string      `mapstructure:"allowed-origins"`
	RateLimit      int           `mapstructure:"rate-limit"`
	RateWindow     time.Duration `mapstructure:"rate-window"`
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max-open-conns"`
	MaxIdleConns    int           `mapstructure:"max-idle-conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn-max-lifetime"`
}

type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"secret-access-key"`
	Bucket          string `mapstructure:"bucket"`
	PublicBaseURL   string `mapstructure:"public-base-url"`
}

type AutomationConfig struct {
	DraftURL    string        `mapstructure:"draft-url"`
	FinalizeURL string        `mapstructure:"finalize-url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api-key"`
	BaseURL      string `mapstructure:"base-url"`
	SiteURL      string `mapstructure:"site-url"`
	SiteName     string `mapstructure:"site-name"`
	GeminiAPIKey string `mapstructure:"gemini-api-key"`
	GeminiModel  string `mapstructure:"gemini-model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type DraftsConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	FinalizeMode string        `mapstructure:"finalize-mode"`
}

type SweeperConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max-attempts"`
	BatchSize   int           `mapstructure:"batch-size"`
}

type IntakeConfig struct {
	RedirectAfter time.Duration `mapstructure:"redirect-after"`
	SearchLimit   int           `mapstructure:"search-limit"`
}

var defaults = map[string]any{
	"http.addr":             ":8080",
	"http.auth-user-header": "X-User-ID",
	"http.allowed-origins":  []string{"*"},
	"http.rate-limit":       30,
	"http.rate-window":      time.Minute,
	"http.max-upload-bytes": int64(10 << 20),

	"database.url":               "",
	"database.max-open-conns":    10,
	"database.max-idle-conns":    5,
	"database.conn-max-lifetime": 5 * time.Minute,

	"storage.endpoint":          "",
	"storage.region":            "us-east-1",
	"storage.access-key-id":     "",
	"storage.secret-access-key": "",
	"storage.bucket":            "keynotes",
	"storage.public-base-url":   "",

	"automation.draft-url":    "",
	"automation.finalize-url": "",
	"automation.timeout":      60 * time.Second,

	"ai.provider":       ProviderOpenRouter,
	"ai.api-key":        "",
	"ai.base-url":       "https://openrouter.ai/api/v1",
	"ai.site-url":       "https://recruitica.app",
	"ai.site-name":      "Recruitica App",
	"ai.gemini-api-key": "",
	"ai.gemini-model":   "gemini-2.5-flash",
	"ai.max-log-length": 200,

	"rabbitmq.url": "",

	"smtp.host":     "",
	"smtp.port":     587,
	"smtp.user":     "",
	"smtp.password": "",
	"smtp.from":     "",

	"drafts.ttl":           30 * time.Minute,
	"drafts.finalize-mode": FinalizeWebhook,

	"sweeper.interval":     time.Minute,
	"sweeper.max-attempts": 5,
	"sweeper.batch-size":   50,

	"intake.redirect-after": 2 * time.Second,
	"intake.search-limit":   50,

	"debug": false,
	"json":  false,
}

// Environment names kept from the hosted deployment.
var envAliases = map[string][]string{
	"database.url":              {"DATABASE_URL"},
	"ai.api-key":                {"OPENROUTER_API_KEY"},
	"ai.site-url":               {"APP_URL"},
	"ai.provider":               {"AI_PROVIDER"},
	"ai.gemini-api-key":         {"GEMINI_API_KEY"},
	"automation.draft-url":      {"AUTOMATION_DRAFT_URL", "N8N_WEBHOOK_URL"},
	"automation.finalize-url":   {"AUTOMATION_FINALIZE_URL", "N8N_FINALIZE_WEBHOOK_URL"},
	"storage.endpoint":          {"SUPABASE_S3_ENDPOINT"},
	"storage.access-key-id":     {"SUPABASE_S3_ACCESS_KEY_ID"},
	"storage.secret-access-key": {"SUPABASE_S3_SECRET_ACCESS_KEY"},
	"storage.public-base-url":   {"SUPABASE_STORAGE_PUBLIC_URL"},
	"http.auth-user-header":     {"AUTH_USER_HEADER"},
	"rabbitmq.url":              {"RABBITMQ_URL"},
	"smtp.host":                 {"MAIL_HOST"},
	"smtp.user":                 {"MAIL_USER"},
	"smtp.password":             {"MAIL_PASS"},
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// Load reads .env (when present), then the config file, then the
// environment. Environment variables win.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New(), cfgFile)
}

func load(v *viper.Viper, cfgFile string) (*Config, error) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetEnvPrefix("RECRUITICA")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	for key, names := range envAliases {
		args := append([]string{key, "RECRUITICA_" + strings.ToUpper(envReplacer.Replace(key))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	switch c.Drafts.FinalizeMode {
	case FinalizeWebhook, FinalizeQueue, FinalizeSMTP:
	default:
		return fmt.Errorf("unknown drafts.finalize-mode %q", c.Drafts.FinalizeMode)
	}
	if c.Drafts.FinalizeMode == FinalizeSMTP && c.SMTP.Host == "" {
		return errors.New("drafts.finalize-mode smtp requires smtp.host")
	}
	if c.HTTP.AuthUserHeader == "" {
		return errors.New("http.auth-user-header must not be empty")
	}
	return nil
}
