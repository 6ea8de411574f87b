package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainline/pkg/drainage"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Limits != drainage.DefaultLimits() {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Server.Addr != DefaultServerAddr || cfg.Log.Level != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "drainline.toml"), `
[limits]
max_velocity = 2.5
min_outlets = 3

[cache]
backend = "redis"
ttl = "72h"
redis_addr = "cache:6379"
redis_db = 2

[server]
addr = ":9090"

[log]
level = "debug"
`)

	cfg, got, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("path = %s", got)
	}
	if cfg.Limits.MaxVelocity != 2.5 || cfg.Limits.MinOutlets != 3 || cfg.Limits.MinVelocity != drainage.DefaultMinVelocity {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL != 72*time.Hour || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.RedisPrefix != "drainline:" {
		t.Errorf("RedisPrefix = %q", cfg.Cache.RedisPrefix)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if lvl, _ := cfg.LogLevel(); lvl != log.DebugLevel {
		t.Errorf("LogLevel = %v", lvl)
	}
	if len(cfg.Unknown) != 0 {
		t.Errorf("Unknown = %v", cfg.Unknown)
	}
}

func TestLoadFromPathMinOutlets(t *testing.T) {
	dir := t.TempDir()

	cfg, _, err := LoadFromPath(writeFile(t, filepath.Join(dir, "zero.toml"), "[limits]\nmin_outlets = 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.MinOutlets != 0 || cfg.Limits.MaxOutlets != drainage.DefaultMaxOutlets {
		t.Errorf("explicit zero: outlets = %d..%d", cfg.Limits.MinOutlets, cfg.Limits.MaxOutlets)
	}

	cfg, _, err = LoadFromPath(writeFile(t, filepath.Join(dir, "omitted.toml"), "[limits]\nmax_velocity = 2.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.MinOutlets != drainage.DefaultMinOutlets {
		t.Errorf("omitted: MinOutlets = %d, want %d", cfg.Limits.MinOutlets, drainage.DefaultMinOutlets)
	}
}

func TestLoadFromPathUnknownKeys(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "c.toml"), `
colour = "blue"

[cache]
backend = "none"
size = 3
`)
	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(cfg.Unknown, ",")
	if got != "colour,cache.size" {
		t.Errorf("Unknown = %v", cfg.Unknown)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[limits\n", "parse config"},
		{"limits", "[limits]\nmin_velocity = 4\n", "[limits]"},
		{"backend", "[cache]\nbackend = \"memcached\"\n", "backend"},
		{"ttl", "[cache]\nttl = \"-1h\"\n", "ttl"},
		{"level", "[log]\nlevel = \"loud\"\n", "[log]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, tt.name+".toml"), tt.content)
			_, _, err := LoadFromPath(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	if _, _, err := LoadFromPath(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadLookupOrder(t *testing.T) {
	work := t.TempDir()
	xdg := t.TempDir()
	home := t.TempDir()
	t.Chdir(work)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(EnvConfigPath, "")

	// Nothing anywhere: defaults.
	cfg, path, err := Load("")
	if err != nil || path != "" || cfg.Server.Addr != DefaultServerAddr {
		t.Fatalf("Load() = %+v, %q, %v", cfg, path, err)
	}

	homeCfg := writeFile(t, filepath.Join(home, ".config", ConfigDirName, "config.toml"), "[server]\naddr = \":1\"\n")
	if got := FindConfigPath(); got != homeCfg {
		t.Errorf("home: FindConfigPath() = %q, want %q", got, homeCfg)
	}

	xdgCfg := writeFile(t, filepath.Join(xdg, ConfigDirName, "config.toml"), "[server]\naddr = \":2\"\n")
	if got := FindConfigPath(); got != xdgCfg {
		t.Errorf("xdg: FindConfigPath() = %q, want %q", got, xdgCfg)
	}

	writeFile(t, filepath.Join(work, ConfigFileName), "[server]\naddr = \":3\"\n")
	if got := FindConfigPath(); filepath.Base(got) != ConfigFileName {
		t.Errorf("cwd: FindConfigPath() = %q", got)
	}

	envCfg := writeFile(t, filepath.Join(t.TempDir(), "env.toml"), "[server]\naddr = \":4\"\n")
	t.Setenv(EnvConfigPath, envCfg)
	cfg, path, err = Load("")
	if err != nil || path != envCfg || cfg.Server.Addr != ":4" {
		t.Errorf("env: Load() = %+v, %q, %v", cfg.Server, path, err)
	}

	flagCfg := writeFile(t, filepath.Join(t.TempDir(), "flag.toml"), "[server]\naddr = \":5\"\n")
	cfg, path, err = Load(flagCfg)
	if err != nil || path != flagCfg || cfg.Server.Addr != ":5" {
		t.Errorf("flag: Load() = %+v, %q, %v", cfg.Server, path, err)
	}

	if _, _, err := Load(filepath.Join(work, "nope.toml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}
