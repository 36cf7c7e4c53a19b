// vibe-planner/config/config.go

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"

	DefaultOpenRouterModel = "google/gemini-2.0-flash-001"
	DefaultGeminiModel     = "gemini-1.5-flash"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

type LLMConfig struct {
	Provider         string        `mapstructure:"provider"`
	OpenRouterAPIKey string        `mapstructure:"openrouter_api_key"`
	OpenRouterModel  string        `mapstructure:"openrouter_model"`
	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	GeminiModel      string        `mapstructure:"gemini_model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RatePerMinute    int           `mapstructure:"rate_per_minute"`
}

// APIKey returns the credential of the selected provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenRouterAPIKey
}

// Model returns the model of the selected provider, falling back to the fixed default.
func (c LLMConfig) Model() string {
	if c.Provider == ProviderGemini {
		if c.GeminiModel != "" {
			return c.GeminiModel
		}
		return DefaultGeminiModel
	}
	if c.OpenRouterModel != "" {
		return c.OpenRouterModel
	}
	return DefaultOpenRouterModel
}

type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	GoogleClientID     string        `mapstructure:"google_client_id"`
	GoogleClientSecret string        `mapstructure:"google_client_secret"`
	RedirectURL        string        `mapstructure:"redirect_url"`
	SecureCookies      bool          `mapstructure:"secure_cookies"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CalendarConfig struct {
	Name     string `mapstructure:"name"`
	TimeZone string `mapstructure:"time_zone"`
}

// Cfg is the loaded configuration, set by Load.
var Cfg *Config

// JwtKey signs session tokens. Set by Load from auth.jwt_secret.
var JwtKey []byte

// envBindings maps config keys to the environment variables that feed them.
var envBindings = map[string][]string{
	"server.addr":               {"SERVER_ADDR"},
	"server.mode":               {"GIN_MODE"},
	"llm.provider":              {"LLM_PROVIDER"},
	"llm.openrouter_api_key":    {"OPENROUTER_API_KEY"},
	"llm.openrouter_model":      {"OPENROUTER_MODEL"},
	"llm.gemini_api_key":        {"GEMINI_API_KEY"},
	"llm.gemini_model":          {"GEMINI_MODEL"},
	"llm.timeout":               {"LLM_TIMEOUT"},
	"llm.rate_per_minute":       {"LLM_RATE_PER_MINUTE"},
	"auth.jwt_secret":           {"JWT_SECRET"},
	"auth.google_client_id":     {"GOOGLE_CLIENT_ID"},
	"auth.google_client_secret": {"GOOGLE_CLIENT_SECRET"},
	"auth.redirect_url":         {"GOOGLE_REDIRECT_URL"},
	"auth.secure_cookies":       {"SECURE_COOKIES"},
	"auth.session_ttl":          {"SESSION_TTL"},
	"redis.addr":                {"REDIS_ADDR"},
	"redis.password":            {"REDIS_PASSWORD"},
	"redis.db":                  {"REDIS_DB"},
	"calendar.name":             {"APP_CALENDAR_NAME"},
	"calendar.time_zone":        {"APP_TIME_ZONE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("llm.provider", ProviderOpenRouter)
	v.SetDefault("llm.timeout", 90*time.Second)
	v.SetDefault("llm.rate_per_minute", 10)
	v.SetDefault("auth.redirect_url", "http://localhost:8080/auth/callback")
	v.SetDefault("auth.session_ttl", time.Hour)
	v.SetDefault("calendar.name", "Vibe App")
	v.SetDefault("calendar.time_zone", "UTC")
}

// Load reads configuration from the environment and, if path is not empty,
// from a yaml file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Cfg = cfg
	JwtKey = []byte(cfg.Auth.JWTSecret)
	return cfg, nil
}

// Validate checks settings the server cannot start without. A missing model
// key is not fatal: schedule generation reports it per request.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable not set")
	}
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLM.Provider)
	}
	if _, err := time.LoadLocation(c.Calendar.TimeZone); err != nil {
		return fmt.Errorf("invalid calendar time zone %q: %w", c.Calendar.TimeZone, err)
	}
	return nil
}

// Location returns the configured calendar time zone, UTC when unset.
func Location() *time.Location {
	if Cfg == nil || Cfg.Calendar.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(Cfg.Calendar.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
