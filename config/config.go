// Package config loads client defaults from a YAML file. Explicit options
// passed at construction win over file values; file values win over
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumenlabs/interactions-go/client"
	"github.com/lumenlabs/interactions-go/runner"
)

// Config is the on-disk client-defaults file.
//
// Example file:
//
//	api_key: "..."
//	model: m-large
//	timeout_seconds: 60
//	max_rounds: 4
type Config struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRounds      int    `yaml:"max_rounds"`
	Debug          bool   `yaml:"debug"`
	StrictDecoding bool   `yaml:"strict_decoding"`
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ClientOptions converts the file values into client options.
func (c *Config) ClientOptions() []client.Option {
	var opts []client.Option
	if c.APIKey != "" {
		opts = append(opts, client.WithAPIKey(c.APIKey))
	}
	if c.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(c.BaseURL))
	}
	if c.TimeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(time.Duration(c.TimeoutSeconds)*time.Second))
	}
	if c.Debug {
		opts = append(opts, client.WithDebug(true))
	}
	if c.StrictDecoding {
		opts = append(opts, client.WithStrictDecoding())
	}
	return opts
}

// RunnerOptions converts the file values into runner options.
func (c *Config) RunnerOptions() []runner.Option {
	var opts []runner.Option
	if c.MaxRounds > 0 {
		opts = append(opts, runner.WithMaxRounds(c.MaxRounds))
	}
	return opts
}
