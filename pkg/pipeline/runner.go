package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainline/pkg/cache"
	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
	"github.com/matzehuels/drainline/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides TTLSnapshot and TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	project, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.OutletCount = len(project.Outlets)

	r.Logger.Info("loaded project",
		"name", project.Name,
		"outlets", len(project.Outlets),
		"duration", result.Stats.LoadTime)

	// Stage 2: Compute
	computeStart := time.Now()
	snapshot, computeHit, err := r.ComputeWithCacheInfo(ctx, project, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Snapshot = snapshot
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.PipeCount = len(snapshot.Pipes)
	result.CacheInfo.ComputeHit = computeHit

	if hash, err := cache.HashJSON(snapshot); err == nil {
		result.SnapshotHash = hash
	}

	r.Logger.Info("computed design",
		"pipes", len(snapshot.Pipes),
		"status", snapshotStatus(snapshot),
		"total_flow", fmt.Sprintf("%.2f L/s", snapshot.TotalFlow()),
		"duration", result.Stats.ComputeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the project document named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*drainage.Project, error) {
	hooks := observability.Pipeline()
	source := opts.Source()
	hooks.OnLoadStart(ctx, source)

	start := time.Now()
	project, err := Load(opts)
	outlets := 0
	if project != nil {
		outlets = len(project.Outlets)
	}
	hooks.OnLoadComplete(ctx, source, outlets, time.Since(start), err)
	return project, err
}

// ComputeWithCacheInfo computes the snapshot of project with caching and
// returns cache hit info.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, project *drainage.Project, opts Options) (designer.Snapshot, bool, error) {
	if err := opts.ValidateForCompute(); err != nil {
		return designer.Snapshot{}, false, err
	}
	if project == nil {
		return designer.Snapshot{}, false, errors.New(errors.ErrCodeNoActiveProject, "no project to compute")
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, len(project.Outlets))
	start := time.Now()

	// Compute cache key from the document and the limits in effect
	cacheKey := ""
	projectHash, perr := cache.HashJSON(project)
	limitsHash, lerr := cache.HashJSON(opts.Limits)
	if perr == nil && lerr == nil {
		cacheKey = r.Keyer.SnapshotKey(projectHash, cache.SnapshotKeyOpts{LimitsHash: limitsHash})
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit := r.get(ctx, cacheKey); hit {
			var s designer.Snapshot
			if err := json.Unmarshal(data, &s); err == nil {
				hooks.OnComputeComplete(ctx, snapshotStatus(s), time.Since(start), nil)
				return s, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	s, err := Compute(project, opts)
	hooks.OnComputeComplete(ctx, snapshotStatus(s), time.Since(start), err)
	if err != nil {
		return designer.Snapshot{}, false, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(s); err == nil {
			r.set(ctx, cacheKey, data, cache.TTLSnapshot)
		}
	}
	return s, false, nil // Cache miss
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, project *drainage.Project, opts Options) (designer.Snapshot, error) {
	s, _, err := r.ComputeWithCacheInfo(ctx, project, opts)
	return s, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s designer.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from snapshot data
	snapshotHash, err := cache.HashJSON(s)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, fmt.Errorf("hash snapshot for cache key: %w", err)
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit := r.get(ctx, r.Keyer.ArtifactKey(snapshotHash, opts.ArtifactKeyOpts(format)))
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil // All artifacts from cache
		}
	}

	rendered, err := Render(ctx, s, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		r.set(ctx, r.Keyer.ArtifactKey(snapshotHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s designer.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// get reads key from the cache. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func snapshotStatus(s designer.Snapshot) string {
	if s.Validation == nil {
		return ""
	}
	return string(s.Validation.Status)
}
