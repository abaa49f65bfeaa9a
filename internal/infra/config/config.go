package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Location  LocationConfig  `yaml:"location"`
	OpenMeteo OpenMeteoConfig `yaml:"openMeteo"`
	Cache     CacheConfig     `yaml:"cache"`
	LLM       LLMConfig       `yaml:"llm"`
	Chat      ChatConfig      `yaml:"chat"`
	Auth      AuthConfig      `yaml:"auth"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Polls     PollsConfig     `yaml:"polls"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LocationConfig pins the city the service reports on.
type LocationConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

// OpenMeteoConfig lists the provider endpoints.
type OpenMeteoConfig struct {
	ForecastURL     string        `yaml:"forecastUrl"`
	AirQualityURL   string        `yaml:"airQualityUrl"`
	ArchiveURL      string        `yaml:"archiveUrl"`
	ClimateURL      string        `yaml:"climateUrl"`
	FloodURL        string        `yaml:"floodUrl"`
	Timeout         time.Duration `yaml:"timeout"`
	ForecastDays    int           `yaml:"forecastDays"`
	HistoryPastDays int           `yaml:"historyPastDays"`
}

// CacheConfig controls the upstream response cache. A zero TTL disables caching.
type CacheConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// LLMConfig contains settings for the OpenAI compatible completion provider.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ChatConfig controls the assistant conversation behavior.
type ChatConfig struct {
	SystemPrompt    string `yaml:"systemPrompt"`
	MaxPromptTokens int    `yaml:"maxPromptTokens"`
	HistoryLimit    int    `yaml:"historyLimit"`
	Encoding        string `yaml:"encoding"`
}

// AuthConfig drives token issuing and the anonymous fallback identity.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	Required        bool          `yaml:"required"`
	DemoUserID      int64         `yaml:"demoUserId"`
	DemoUsername    string        `yaml:"demoUsername"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArchiveConfig points at the S3 compatible bucket holding climate archives.
type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	Bucket     string `yaml:"bucket"`
	Region     string `yaml:"region"`
	ClimateKey string `yaml:"climateKey"`
}

// PollsConfig holds community poll defaults.
type PollsConfig struct {
	DefaultDurationDays int  `yaml:"defaultDurationDays"`
	Seed                bool `yaml:"seed"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.Location.Name, "LOCATION_NAME")
	setFloat(&cfg.Location.Latitude, "LOCATION_LATITUDE")
	setFloat(&cfg.Location.Longitude, "LOCATION_LONGITUDE")
	setString(&cfg.Location.Timezone, "LOCATION_TIMEZONE")

	setString(&cfg.OpenMeteo.ForecastURL, "OPEN_METEO_FORECAST_URL")
	setString(&cfg.OpenMeteo.AirQualityURL, "OPEN_METEO_AIR_QUALITY_URL")
	setString(&cfg.OpenMeteo.ArchiveURL, "OPEN_METEO_ARCHIVE_URL")
	setString(&cfg.OpenMeteo.ClimateURL, "OPEN_METEO_CLIMATE_URL")
	setString(&cfg.OpenMeteo.FloodURL, "OPEN_METEO_FLOOD_URL")
	setDuration(&cfg.OpenMeteo.Timeout, "OPEN_METEO_TIMEOUT")

	setDuration(&cfg.Cache.TTL, "CACHE_TTL")
	setBool(&cfg.Cache.Valkey.Enabled, "VALKEY_ENABLED")
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
		cfg.Cache.Valkey.Enabled = true
	}

	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.APIKey, "GROQ_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS")

	setString(&cfg.Chat.SystemPrompt, "CHAT_SYSTEM_PROMPT")
	setInt(&cfg.Chat.MaxPromptTokens, "CHAT_MAX_PROMPT_TOKENS")
	setInt(&cfg.Chat.HistoryLimit, "CHAT_HISTORY_LIMIT")

	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "AUTH_TOKEN_TTL")
	setDuration(&cfg.Auth.RefreshTokenTTL, "AUTH_REFRESH_TOKEN_TTL")
	setBool(&cfg.Auth.Required, "AUTH_REQUIRED")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}

	setBool(&cfg.Archive.Enabled, "R2_ENABLED")
	setString(&cfg.Archive.Endpoint, "R2_ENDPOINT")
	setString(&cfg.Archive.AccessKey, "R2_ACCESS_KEY")
	setString(&cfg.Archive.SecretKey, "R2_SECRET_KEY")
	setString(&cfg.Archive.Bucket, "R2_BUCKET")
	setString(&cfg.Archive.Region, "R2_REGION")
	setString(&cfg.Archive.ClimateKey, "R2_CLIMATE_KEY")

	setInt(&cfg.Polls.DefaultDurationDays, "POLLS_DEFAULT_DURATION_DAYS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 200 * time.Millisecond,
				Exclude: []string{
					"/ws",
					"/metrics",
				},
			},
		},
		Location: LocationConfig{
			Name:      "Hanoi",
			Latitude:  21.0245,
			Longitude: 105.8412,
			Timezone:  "Asia/Ho_Chi_Minh",
		},
		OpenMeteo: OpenMeteoConfig{
			ForecastURL:     "https://api.open-meteo.com/v1/forecast",
			AirQualityURL:   "https://air-quality-api.open-meteo.com/v1/air-quality",
			ArchiveURL:      "https://archive-api.open-meteo.com/v1/archive",
			ClimateURL:      "https://climate-api.open-meteo.com/v1/climate",
			FloodURL:        "https://flood-api.open-meteo.com/v1/flood",
			Timeout:         10 * time.Second,
			ForecastDays:    7,
			HistoryPastDays: 30,
		},
		Cache: CacheConfig{
			TTL: 0,
			Valkey: ValkeyConfig{
				Prefix: "ecosense",
			},
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama3-70b-8192",
			Temperature: 0.7,
			MaxTokens:   1024,
			Timeout:     60 * time.Second,
		},
		Chat: ChatConfig{
			SystemPrompt:    "You are an AI assistant specializing in environmental information for Hanoi, Vietnam. Provide accurate, helpful information about Hanoi's weather, air quality, climate, and sustainability. Keep responses concise.",
			MaxPromptTokens: 6000,
			HistoryLimit:    200,
			Encoding:        "cl100k_base",
		},
		Auth: AuthConfig{
			Secret:          "change-me-in-production",
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
			DemoUserID:      0,
			DemoUsername:    "demo_user",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Archive: ArchiveConfig{
			Bucket:     "ecosense-archive",
			Region:     "auto",
			ClimateKey: "climate/hanoi-yearly.json",
		},
		Polls: PollsConfig{
			DefaultDurationDays: 7,
			Seed:                true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return errors.New("location.latitude must be within [-90, 90]")
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return errors.New("location.longitude must be within [-180, 180]")
	}
	if strings.TrimSpace(c.Location.Timezone) == "" {
		return errors.New("location.timezone cannot be empty")
	}
	if strings.TrimSpace(c.OpenMeteo.ForecastURL) == "" || strings.TrimSpace(c.OpenMeteo.AirQualityURL) == "" {
		return errors.New("openMeteo.forecastUrl and openMeteo.airQualityUrl cannot be empty")
	}
	if c.OpenMeteo.Timeout <= 0 {
		return errors.New("openMeteo.timeout must be positive")
	}
	if c.OpenMeteo.ForecastDays < 2 || c.OpenMeteo.ForecastDays > 16 {
		return errors.New("openMeteo.forecastDays must be within [2, 16]")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if strings.TrimSpace(c.Chat.SystemPrompt) == "" {
		return errors.New("chat.systemPrompt cannot be empty")
	}
	if c.Chat.MaxPromptTokens <= 0 {
		return errors.New("chat.maxPromptTokens must be positive")
	}
	if c.Chat.HistoryLimit < 0 {
		return errors.New("chat.historyLimit cannot be negative")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" || strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.endpoint and archive.bucket are required when the archive is enabled")
		}
	}
	if c.Polls.DefaultDurationDays <= 0 {
		return errors.New("polls.defaultDurationDays must be positive")
	}
	return nil
}
