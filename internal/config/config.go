package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath          = "spsbridge.yml"
	DefaultInstance      = "default"
	DefaultRedisURL      = "redis://localhost:6379"
	DefaultCycleInterval = 100 * time.Millisecond
	DefaultRetainCycles  = 1
	DefaultYawFormat     = "float"
	DefaultHealthAddr    = ":8080"
)

var instanceNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// DispatcherConfig specifies dispatch loop behavior
type DispatcherConfig struct {
	CycleInterval time.Duration `yaml:"cycle_interval,omitempty"` // Fallback poll period when no command event arrives (default 100ms)
	RetainCycles  *int          `yaml:"retain_cycles,omitempty"`  // Cycles a terminal record stays on the link (0 = retire at once, default 1)
}

// OutputConfig specifies how effects are reported back to the agent
type OutputConfig struct {
	YawFormat string `yaml:"yaw_format,omitempty" env:"SPS_YAW_FORMAT"` // "float" or "int"
}

// HealthConfig specifies the health and metrics listener
type HealthConfig struct {
	Addr string `yaml:"addr,omitempty" env:"SPS_HEALTH_ADDR"`
}

// Config represents the top-level spsbridge.yml configuration
type Config struct {
	Version    string           `yaml:"version"`
	Instance   string           `yaml:"instance,omitempty" env:"SPS_INSTANCE"`
	RedisURL   string           `yaml:"redis_url,omitempty" env:"REDIS_URL"`
	Dispatcher DispatcherConfig `yaml:"dispatcher,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Health     HealthConfig     `yaml:"health,omitempty"`
}

// Validate applies defaults and rejects invalid values
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Instance == "" {
		c.Instance = DefaultInstance
	}
	if !instanceNamePattern.MatchString(c.Instance) {
		return fmt.Errorf("invalid instance name %q: use letters, digits, '-' and '_'", c.Instance)
	}

	if c.RedisURL == "" {
		c.RedisURL = DefaultRedisURL
	}
	if _, err := redis.ParseURL(c.RedisURL); err != nil {
		return fmt.Errorf("invalid redis_url: %w", err)
	}

	if c.Dispatcher.CycleInterval == 0 {
		c.Dispatcher.CycleInterval = DefaultCycleInterval
	}
	if c.Dispatcher.CycleInterval < 0 {
		return fmt.Errorf("dispatcher.cycle_interval must be positive, got %s", c.Dispatcher.CycleInterval)
	}

	if c.Dispatcher.RetainCycles == nil {
		retain := DefaultRetainCycles
		c.Dispatcher.RetainCycles = &retain
	}
	if *c.Dispatcher.RetainCycles < 0 {
		return fmt.Errorf("dispatcher.retain_cycles must be >= 0 (0 = retire immediately), got %d", *c.Dispatcher.RetainCycles)
	}

	if c.Output.YawFormat == "" {
		c.Output.YawFormat = DefaultYawFormat
	}
	if c.Output.YawFormat != "float" && c.Output.YawFormat != "int" {
		return fmt.Errorf("invalid output.yaw_format: %s (must be 'float' or 'int')", c.Output.YawFormat)
	}

	if c.Health.Addr == "" {
		c.Health.Addr = DefaultHealthAddr
	}

	return nil
}

// FloatYaw reports whether waypoint bearings start out as floats
func (c *Config) FloatYaw() bool {
	return c.Output.YawFormat != "int"
}

// RedisOptions parses RedisURL into client options
func (c *Config) RedisOptions() (*redis.Options, error) {
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis_url: %w", err)
	}
	return opts, nil
}

// Load reads spsbridge.yml from the specified path, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	config := Config{Version: "1.0"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
