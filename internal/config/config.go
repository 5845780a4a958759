package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Reports struct {
		Dir             string `yaml:"dir"`
		WatchDebounceMS int    `yaml:"watchDebounceMs"`
	} `yaml:"reports"`

	AI struct {
		BaseURL        string `yaml:"baseUrl"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"ai"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
}

// Load reads config.yaml and fills defaults for omitted fields. A missing
// file is not an error: the defaults describe a runnable local setup.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "reports"
	}
	if c.Reports.WatchDebounceMS == 0 {
		c.Reports.WatchDebounceMS = 500
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 30
	}
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Reports.WatchDebounceMS) * time.Millisecond
}
