package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Gateway     GatewayConfig   `mapstructure:"gateway"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`

	v *viper.Viper
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// GatewayConfig AI 閘道配置
type GatewayConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
	RetryMaxWait time.Duration `mapstructure:"retry_max_wait"`
}

// CacheConfig 快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// 快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// LoadConfig 載入設定：預設值 -> .env -> 環境變數
func LoadConfig() (*Config, error) {
	// .env 不存在不是錯誤
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(viper.New())
}

// Load 以指定的 viper 實例解析設定（測試可傳入獨立實例）
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string][]string{
		"gateway.api_key":     {"LOVABLE_API_KEY", "AI_GATEWAY_API_KEY"},
		"gateway.base_url":    {"AI_GATEWAY_URL"},
		"gateway.model":       {"AI_GATEWAY_MODEL"},
		"gateway.timeout":     {"AI_GATEWAY_TIMEOUT"},
		"gateway.max_retries": {"AI_GATEWAY_MAX_RETRIES"},
		"server.port":         {"PORT"},
		"cache.enabled":       {"CACHE_ENABLED"},
		"cache.backend":       {"CACHE_BACKEND"},
		"cache.redis_addr":    {"REDIS_ADDR"},
		"rate_limit.enabled":  {"RATE_LIMIT_ENABLED"},
		"rate_limit.requests": {"RATE_LIMIT_REQUESTS"},
		"rate_limit.window":   {"RATE_LIMIT_WINDOW"},
		"dedup_window":        {"DEDUP_WINDOW"},
		"log_level":           {"LOG_LEVEL"},
		"log_file":            {"LOG_FILE"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.v = v

	return &cfg, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "pantry-chef")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 64<<10)

	v.SetDefault("gateway.base_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("gateway.model", "google/gemini-3-flash-preview")
	v.SetDefault("gateway.temperature", 0.7)
	v.SetDefault("gateway.timeout", "60s")
	v.SetDefault("gateway.max_retries", 2)
	v.SetDefault("gateway.retry_wait", "500ms")
	v.SetDefault("gateway.retry_max_wait", "5s")

	// 預設關閉，維持每次請求無狀態
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// validateConfig 驗證設定；API key 於每次呼叫時檢查，不在此驗證
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid server request timeout")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}

	if strings.TrimSpace(config.Gateway.BaseURL) == "" {
		return fmt.Errorf("gateway base url is required")
	}
	if strings.TrimSpace(config.Gateway.Model) == "" {
		return fmt.Errorf("gateway model is required")
	}
	if config.Gateway.Timeout <= 0 {
		return fmt.Errorf("invalid gateway timeout")
	}
	if config.Gateway.MaxRetries < 0 {
		return fmt.Errorf("invalid gateway max retries")
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheBackendMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheBackendRedis:
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}

// APIKey 於呼叫時解析 AI 閘道憑證；經 Load 建立時重新讀取環境變量
func (c *Config) APIKey() string {
	if c.v != nil {
		return strings.TrimSpace(c.v.GetString("gateway.api_key"))
	}
	return strings.TrimSpace(c.Gateway.APIKey)
}

// HasCredential 是否已設定 AI 閘道憑證
func (c *Config) HasCredential() bool {
	return c.APIKey() != ""
}
