// Package config loads server configuration from an optional TOML/YAML file
// with PEERSHARE_ environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type ServerConfig struct {
	Port             int           `koanf:"port"`
	GracefulShutdown time.Duration `koanf:"graceful-shutdown"`
	ReadTimeout      time.Duration `koanf:"read-timeout"`
	WriteTimeout     time.Duration `koanf:"write-timeout"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// JWTConfig holds the process-wide signing secret shared by session and
// share tokens. Secret is required; there is no fallback value.
type JWTConfig struct {
	Secret     string        `koanf:"secret"`
	SessionTTL time.Duration `koanf:"session-ttl"`
}

type StoreConfig struct {
	Path string `koanf:"path"`
}

type CacheConfig struct {
	MaxSize   int    `koanf:"max-size"`
	RedisAddr string `koanf:"redis-addr"`
	RedisPass string `koanf:"redis-pass"`
}

type IPFSConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ReaperConfig drives the expired-grant sweep. Schedule is a cron
// expression; the reference cadence is daily at midnight.
type ReaperConfig struct {
	Enable   bool   `koanf:"enable"`
	Schedule string `koanf:"schedule"`
}

type Config struct {
	Server ServerConfig  `koanf:"server"`
	Log    LoggingConfig `koanf:"log"`
	JWT    JWTConfig     `koanf:"jwt"`
	Store  StoreConfig   `koanf:"store"`
	Cache  CacheConfig   `koanf:"cache"`
	IPFS   IPFSConfig    `koanf:"ipfs"`
	Reaper ReaperConfig  `koanf:"reaper"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:             8080,
			GracefulShutdown: 10 * time.Second,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     5 * time.Minute,
		},
		Log: LoggingConfig{
			Level: "info",
		},
		JWT: JWTConfig{
			SessionTTL: 3 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Cache: CacheConfig{
			MaxSize: 8 * 1024 * 1024,
		},
		IPFS: IPFSConfig{
			Endpoint: "http://localhost:5001/api/v0",
			Timeout:  60 * time.Second,
		},
		Reaper: ReaperConfig{
			Enable:   true,
			Schedule: "0 0 * * *",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "peershare.db"
	}
	return filepath.Join(home, ".peershare", "peershare.db")
}

// Load reads cfgFile (when non-empty) and PEERSHARE_ env vars over the
// defaults. Double underscores nest and single underscores become hyphens,
// so PEERSHARE_SERVER__PORT -> server.port and
// PEERSHARE_JWT__SESSION_TTL -> jwt.session-ttl.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if cfgFile != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(cfgFile)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		default:
			parser = toml.Parser()
		}
		if err := k.Load(file.Provider(cfgFile), parser); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", cfgFile, err)
		}
	}

	err := k.Load(env.Provider("PEERSHARE_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "PEERSHARE_"))
		key = strings.ReplaceAll(key, "__", ".")
		return strings.ReplaceAll(key, "_", "-")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: reading environment: %w", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the few settings without safe defaults.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	if c.IPFS.Endpoint == "" {
		return fmt.Errorf("config: ipfs.endpoint is required")
	}
	return nil
}
