package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string `mapstructure:"addr"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// BatchMaxItems bounds POST /personnummer/validate/batch.
	BatchMaxItems int `mapstructure:"batch_max_items"`
	// BatchConcurrency bounds the goroutines validating one batch.
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	// AuditBuffer is the capacity of the async audit channel.
	AuditBuffer int `mapstructure:"audit_buffer"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MetricsEnabled mounts GET /metrics.
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// RateLimitConfig is the per-client-IP limit on validation routes.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerWindow int           `mapstructure:"requests_per_window"`
	Window            time.Duration `mapstructure:"window"`
}

// RedisConfig enables the shared rate limit store when URL is set.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// EnvPrefix namespaces every environment variable, e.g. PNR_ADDR or
// PNR_RATE_LIMIT_WINDOW.
const EnvPrefix = "PNR"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Server, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("batch_max_items", 100)
	v.SetDefault("batch_concurrency", 8)
	v.SetDefault("audit_buffer", 1024)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("trust_proxy_headers", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_window", 60)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.read_timeout", 500*time.Millisecond)
	v.SetDefault("redis.write_timeout", 500*time.Millisecond)
}

// Validate rejects settings the server cannot run with.
func (s Server) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if s.BatchMaxItems < 1 {
		return fmt.Errorf("batch_max_items must be positive, got %d", s.BatchMaxItems)
	}
	if s.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive, got %d", s.BatchConcurrency)
	}
	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerWindow < 1 {
			return fmt.Errorf("rate_limit.requests_per_window must be positive, got %d", s.RateLimit.RequestsPerWindow)
		}
		if s.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.window must be positive, got %s", s.RateLimit.Window)
		}
	}
	return nil
}
