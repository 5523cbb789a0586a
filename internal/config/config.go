package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdownTimeout"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// TTL overrides quiz.ttl for the Redis quiz cache.
		TTL string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		// TTL controls how long published quizzes stay cached.
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Progress struct {
		// TTL expires abandoned progress in Redis; empty keeps it until cleared.
		TTL string `yaml:"ttl"`
	} `yaml:"progress"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
}

// Load reads YAML config from path. A missing file yields the zero config,
// which runs the service fully in memory.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
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

// Origins returns the configured CORS origins, allowing any origin when none are set.
func (c Config) Origins() []string {
	if len(c.CORS.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.CORS.AllowedOrigins
}
