package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Session  SessionConfig  `yaml:"session"`
}

type DatabaseConfig struct {
	// Driver selects the storage backend: "postgres" or "memory".
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type SessionConfig struct {
	SubmitDelaySeconds    int `yaml:"submit_delay_seconds"`
	StatusIntervalSeconds int `yaml:"status_interval_seconds"`
	HistoryLimit          int `yaml:"history_limit"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Session.SubmitDelaySeconds <= 0 {
		c.Session.SubmitDelaySeconds = 2
	}
	if c.Session.StatusIntervalSeconds <= 0 {
		c.Session.StatusIntervalSeconds = 30
	}
	if c.Session.HistoryLimit <= 0 {
		c.Session.HistoryLimit = 10
	}
}
