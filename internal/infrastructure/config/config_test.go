package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "")
	t.Setenv("AI_GATEWAY_API_KEY", "")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Gateway.Model != "google/gemini-3-flash-preview" {
		t.Fatalf("model = %q", cfg.Gateway.Model)
	}
	if cfg.Gateway.Temperature != 0.7 {
		t.Fatalf("temperature = %v, want 0.7", cfg.Gateway.Temperature)
	}
	if cfg.Gateway.Timeout != 60*time.Second {
		t.Fatalf("gateway timeout = %v", cfg.Gateway.Timeout)
	}
	if cfg.Cache.Enabled {
		t.Fatal("cache should be disabled by default")
	}
	if cfg.HasCredential() {
		t.Fatal("no credential expected")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("AI_GATEWAY_URL", "http://127.0.0.1:1234/v1")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("APP_GATEWAY_MAX_RETRIES", "0")
	t.Setenv("DEDUP_WINDOW", "250ms")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.HasCredential() || cfg.Gateway.APIKey != "test-key" {
		t.Fatalf("api key not loaded: %q", cfg.Gateway.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Gateway.BaseURL != "http://127.0.0.1:1234/v1" {
		t.Fatalf("base url = %q", cfg.Gateway.BaseURL)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Backend != CacheBackendRedis {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if cfg.Gateway.MaxRetries != 0 {
		t.Fatalf("max retries = %d, want 0", cfg.Gateway.MaxRetries)
	}
	if cfg.DedupWindow != 250*time.Millisecond {
		t.Fatalf("dedup window = %v", cfg.DedupWindow)
	}
}

func TestAPIKeyResolvedAtCallTime(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "old-key")
	t.Setenv("AI_GATEWAY_API_KEY", "")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.APIKey(); got != "old-key" {
		t.Fatalf("APIKey() = %q, want old-key", got)
	}

	t.Setenv("LOVABLE_API_KEY", "rotated-key")
	if got := cfg.APIKey(); got != "rotated-key" {
		t.Fatalf("APIKey() after rotation = %q, want rotated-key", got)
	}

	t.Setenv("LOVABLE_API_KEY", "")
	if cfg.HasCredential() {
		t.Fatal("credential should be gone after unsetting env")
	}

	static := &Config{Gateway: GatewayConfig{APIKey: " static "}}
	if got := static.APIKey(); got != "static" {
		t.Fatalf("static APIKey() = %q", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown cache backend", map[string]string{"CACHE_ENABLED": "true", "CACHE_BACKEND": "memcached"}},
		{"negative retries", map[string]string{"AI_GATEWAY_MAX_RETRIES": "-1"}},
		{"zero port", map[string]string{"PORT": "0"}},
		{"bad rate limit", map[string]string{"RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_REQUESTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(viper.New()); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
