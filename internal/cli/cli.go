// Package cli implements the drainline command-line interface.
//
// Commands load project files, run the design pipeline, and write reports
// and diagrams:
//   - design: compute a project and write txt/json/dot/svg/pdf/png outputs
//   - validate: print the validation verdict; exits non-zero on ERROR
//   - init: write a starter project file
//   - edit: interactive outlet editor in the terminal
//   - serve: HTTP API over a live designer
//   - diameters, transform: engineering helpers
//   - cache: manage the artifact cache
//
// All commands accept --verbose, --config and --no-cache. Loggers travel
// through the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/internal/config"
	"github.com/matzehuels/drainline/pkg/buildinfo"
	"github.com/matzehuels/drainline/pkg/cache"
	"github.com/matzehuels/drainline/pkg/observability"
	"github.com/matzehuels/drainline/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "drainline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	verbose    bool
	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Drainline designs siphonic roof drainage networks",
		Long:          `Drainline lays out siphonic roof outlets, sizes the collector pipes between them, and checks the network against velocity, diameter and balance limits.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default: $DRAINLINE_CONFIG, ./drainline.toml, ~/.config/drainline/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")

	// Register all subcommands
	root.AddCommand(c.designCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.diametersCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level unless
// --verbose is set.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, _ := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if level == LogDebug {
		observability.RegisterLogHooks(c.Logger)
	}

	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	for _, key := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", key, "file", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys are scoped by
// version so an upgrade never serves artifacts rendered by an older build.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", cfg.RedisAddr, "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/drainline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatText}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns where an artifact is written. A single format with an
// explicit output path is written there as given. A derived path never
// replaces the input file.
func artifactPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	base := basePath(output, input)
	if path := base + "." + format; filepath.Clean(path) != filepath.Clean(input) {
		return path
	}
	return base + ".report." + format
}

// writeArtifacts writes each artifact in format order and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := artifactPath(output, input, format, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
