// Package config loads drainline's TOML configuration file.
//
// Config file locations (priority order):
//  1. the --config flag
//  2. $DRAINLINE_CONFIG
//  3. ./drainline.toml
//  4. $XDG_CONFIG_HOME/drainline/config.toml
//  5. ~/.config/drainline/config.toml
//
// A missing file is not an error; defaults apply. Every section is optional:
//
//	[limits]
//	max_velocity = 2.5
//
//	[cache]
//	backend = "redis"      # file, redis or none
//	ttl = "72h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainline/pkg/drainage"
)

// File and directory names.
const (
	EnvConfigPath  = "DRAINLINE_CONFIG"
	ConfigFileName = "drainline.toml"
	ConfigDirName  = "drainline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultServerAddr is the API listen address when none is configured.
const DefaultServerAddr = "127.0.0.1:8080"

// Config is the decoded configuration file.
type Config struct {
	Limits drainage.Limits `toml:"limits"`
	Cache  CacheConfig     `toml:"cache"`
	Server ServerConfig    `toml:"server"`
	Log    LogConfig       `toml:"log"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// TTL overrides the per-entry default lifetimes when positive.
	TTL time.Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ServerConfig configures `drainline serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Load finds and loads the config file, or returns defaults if none is
// found. An explicit path must exist.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		return LoadFromPath(explicit)
	}
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{Limits: drainage.DefaultLimits()}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, path, fmt.Errorf("parse config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, path, nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	c.Limits = c.Limits.WithDefaults()
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.RedisPrefix == "" {
		c.Cache.RedisPrefix = "drainline:"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("[limits]: %w", err)
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return fmt.Errorf("[cache] backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("[cache] ttl must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("[log] %w", err)
	}
	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

// FindConfigPath returns the first existing config file in lookup order,
// or "" when there is none.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", ConfigDirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
