package cache

// ScopedKeyer wraps a Keyer with a prefix so several designs or tenants can
// share one backend without colliding.
//
// Example usage:
//
//	// Per-deployment namespace on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "drainline:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(projectHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(projectHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}
