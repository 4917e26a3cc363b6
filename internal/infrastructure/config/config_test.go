package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Gemini: GeminiConfig{
			Model:   "gemini-flash-latest",
			Timeout: time.Minute,
		},
		Blend: BlendConfig{
			PlannerMaxTokens:   1024,
			ArchitectMaxTokens: 3072,
		},
		Cache: CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = 0 }},
		{"missing model", func(c *Config) { c.Gemini.Model = "" }},
		{"bad timeout", func(c *Config) { c.Gemini.Timeout = 0 }},
		{"bad token budget", func(c *Config) { c.Blend.PlannerMaxTokens = 0 }},
		{"bad cache size", func(c *Config) { c.Cache.MaxSize = 0 }},
		{"bad cache ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisAddr = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestValidateConfigIgnoresCacheWhenDisabled(t *testing.T) {
	cfg := validTestConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.MaxSize = 0
	cfg.Cache.TTL = 0
	assert.NoError(t, validateConfig(cfg))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "AIza...wxyz", MaskAPIKey("AIzaSomeLongKeywxyz"))
}
