// Package buildinfo carries the drainline release stamp.
//
// The stamp is shown by `drainline --version` and GET /healthz, and it
// scopes cached render output so that a new release never serves diagrams
// produced by an older one. Release builds set it with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/drainline/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/drainline/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/drainline/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/drainline
package buildinfo

import "fmt"

// Set by ldflags; local builds keep the placeholders.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short returns the version with the commit appended when known,
// e.g. "v0.3.0 (1a2b3c4)".
func Short() string {
	if Commit == "" || Commit == "none" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Short() + "\nbuilt: " + Date + "\n"
}

// CacheScope returns the key prefix that separates cached artifacts of
// different releases.
func CacheScope() string {
	return "v" + Version + ":"
}
