// Package config loads and validates application configuration from an
// optional YAML file. CLI flags and environment variables override whatever
// the file provides; validation runs on the merged result.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	GatewayURL            string `yaml:"gateway_url"             validate:"omitempty,url"`
	GatewayTimeoutSeconds int    `yaml:"gateway_timeout_seconds" validate:"min=1,max=300"`
	Port                  int    `yaml:"port"                    validate:"min=0,max=65535"`
	EventBus              string `yaml:"event_bus"               validate:"oneof=memory kafka"`
	LogLevel              string `yaml:"log_level"               validate:"oneof=debug info warn error"`
	LogFormat             string `yaml:"log_format"              validate:"oneof=text json"`
	Tracing               bool   `yaml:"tracing"`
}

// GatewayTimeout returns the configured gateway timeout as a duration.
func (c Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSeconds) * time.Second
}

const defaultPort = 9190

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		GatewayTimeoutSeconds: 30,
		Port:                  defaultPort,
		EventBus:              "memory",
		LogLevel:              "info",
		LogFormat:             "text",
	}
}

// Load reads the YAML file at path, merged over defaults. An empty path
// yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
