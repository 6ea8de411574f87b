// Package cache stores derived design data keyed by content hashes.
//
// The batch pipeline renders reports and diagrams from a computed snapshot.
// Rendering is deterministic, so artifacts are cached under a key derived
// from the snapshot hash and the render options. Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so callers never assemble key strings by hand.
// [ScopedKeyer] prefixes every key to give tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLSnapshot bounds how long a computed snapshot stays cached.
	TTLSnapshot = 7 * 24 * time.Hour

	// TTLArtifact bounds how long a rendered artifact stays cached.
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// SnapshotKey keys the computed snapshot of a project document.
	SnapshotKey(projectHash string, opts SnapshotKeyOpts) string

	// ArtifactKey keys one rendered output of a snapshot.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// SnapshotKeyOpts holds the inputs besides the project that change a
// computed snapshot.
type SnapshotKeyOpts struct {
	// LimitsHash is the hash of the engineering limits in effect.
	LimitsHash string `json:"limits_hash"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey returns "snapshot:<hash>".
func (DefaultKeyer) SnapshotKey(projectHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", projectHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}
