package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	JWT    JWTConfig    `yaml:"jwt"`
	Redis  RedisConfig  `yaml:"redis"`
	Chart  ChartConfig  `yaml:"chart"`
	Search SearchConfig `yaml:"search"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// JWTConfig holds token validation settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
}

// ChartConfig holds sea chart settings
type ChartConfig struct {
	Path        string  `yaml:"path"`
	HexSize     float64 `yaml:"hex_size"`
	WatchReload bool    `yaml:"watch_reload"`
	DebounceMs  int     `yaml:"debounce_ms"`
}

// SearchConfig holds pathfinding settings
type SearchConfig struct {
	Strategy string `yaml:"strategy"` // "astar" or "bfs"
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "sailboat:revoked:"
	}
	if cfg.Chart.Path == "" {
		cfg.Chart.Path = "./charts/open-sea.yaml"
	}
	if cfg.Chart.HexSize == 0 {
		cfg.Chart.HexSize = 1.0
	}
	if cfg.Chart.DebounceMs == 0 {
		cfg.Chart.DebounceMs = 250
	}
	if cfg.Search.Strategy == "" {
		cfg.Search.Strategy = "astar"
	}

	return &cfg, nil
}
