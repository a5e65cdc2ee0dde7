package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Games  GamesConfig  `yaml:"games"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	AllowedOrigins string `yaml:"allowed_origins"`
}

type GamesConfig struct {
	MaxConcurrent int           `yaml:"max_concurrent"`
	IdleTTL       time.Duration `yaml:"idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			ListenAddr:     "127.0.0.1:3000",
			AllowedOrigins: "http://localhost:5173",
		},
		Games: GamesConfig{
			MaxConcurrent: 16,
			IdleTTL:       2 * time.Hour,
			SweepInterval: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load starts from Default, overlays the yaml file named by CHESS_CONFIG
// when set, then applies individual env overrides.
func Load() (*AppConfig, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CHESS_CONFIG")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.Server.AllowedOrigins = v
	}
	if v := strings.TrimSpace(os.Getenv("MAX_GAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Games.MaxConcurrent = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_IDLE_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Games.IdleTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Log.Format = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) validate() error {
	if strings.TrimSpace(c.Server.ListenAddr) == "" {
		return errors.New("server.listen_addr is required")
	}
	if c.Games.MaxConcurrent <= 0 {
		return errors.New("games.max_concurrent must be positive")
	}
	if c.Games.IdleTTL <= 0 || c.Games.SweepInterval <= 0 {
		return errors.New("games.idle_ttl and games.sweep_interval must be positive")
	}
	return nil
}
