package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"QUIZ_REDIS_ADDR"`
		Password string `yaml:"password" env:"QUIZ_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"QUIZ_REDIS_DB"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"QUIZ_POSTGRES_URL"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path" env:"QUIZ_SQLITE_PATH"`
	} `yaml:"sqlite"`
	Quiz struct {
		TTL string `yaml:"ttl" env:"QUIZ_CACHE_TTL"`
	} `yaml:"quiz"`
	Presentation struct {
		TTL string `yaml:"ttl" env:"QUIZ_PRESENTATION_TTL"`
	} `yaml:"presentation"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file is not an error; the environment alone is used.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
