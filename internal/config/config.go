package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	SiteURL string `yaml:"site_url"` // public base URL used for checkout back/notification URLs
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	// JWTSecret verifies the identity provider's HS256 access tokens.
	JWTSecret string `yaml:"jwt_secret"`
}

type PaymentConfig struct {
	MercadoPago struct {
		AccessToken string `yaml:"access_token"`
		BaseURL     string `yaml:"base_url"` // override for tests/sandbox
	} `yaml:"mercadopago"`
}

type CalendarConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	CalendarID   string `yaml:"calendar_id"`
	Timezone     string `yaml:"timezone"`
	OwnerEmail   string `yaml:"owner_email"`
}

type AssistantConfig struct {
	GroqKey     string `yaml:"groq_key"`
	GroqBaseURL string `yaml:"groq_base_url"`
	Model       string `yaml:"model"`
	GeminiKey   string `yaml:"gemini_key"`
	GeminiModel string `yaml:"gemini_model"`
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Payment    PaymentConfig    `yaml:"payment"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Assistant  AssistantConfig  `yaml:"assistant"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Payment.MercadoPago.BaseURL == "" {
		cfg.Payment.MercadoPago.BaseURL = "https://api.mercadopago.com"
	}
	if cfg.Calendar.Timezone == "" {
		cfg.Calendar.Timezone = "America/Santiago"
	}
	if cfg.Calendar.CalendarID == "" {
		cfg.Calendar.CalendarID = "primary"
	}
	if cfg.Assistant.GroqBaseURL == "" {
		cfg.Assistant.GroqBaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = "llama-3.1-8b-instant"
	}
	if cfg.Assistant.GeminiModel == "" {
		cfg.Assistant.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = time.Minute
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 10 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Server.SiteURL == "" {
		return nil, errors.New("server.site_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
