// Package pipeline runs the load → compute → render pipeline for drainline.
//
// The CLI and the HTTP server both go through this package so a project
// file produces the same snapshot and the same artifacts everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a project document from a file or an inline string
//  2. Compute: Run the designer over the project to get a snapshot
//  3. Render: Generate outputs (report text, JSON, DOT, SVG, PDF, PNG)
//
// Computed snapshots and rendered artifacts are cached by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ProjectPath: "warehouse.toml",
//	    Formats:     []string{"txt", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainline/pkg/cache"
	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
	projectio "github.com/matzehuels/drainline/pkg/io"
	"github.com/matzehuels/drainline/pkg/render/nodelink"
)

// DefaultPNGScale is the raster scale used for PNG output.
const DefaultPNGScale = 2.0

// Format constants for output formats.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// AllFormats lists the output formats in display order.
var AllFormats = []string{FormatText, FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of ProjectPath and Document is set.
	ProjectPath    string `json:"project_path,omitempty"`
	Document       string `json:"document,omitempty"`
	DocumentFormat string `json:"document_format,omitempty"` // toml, yaml or json

	// Compute options. Zero fields take the defaults.
	Limits drainage.Limits `json:"limits,omitzero"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"` // diagram points per metre

	Refresh bool `json:"refresh,omitempty"` // bypass cached snapshots and artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the computed design.
	Snapshot designer.Snapshot

	// SnapshotHash is the content hash of the snapshot.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	OutletCount int
	PipeCount   int
	LoadTime    time.Duration
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the snapshot came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(AllFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a project source is set.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.ProjectPath == "" && o.Document == "":
		return errors.New(errors.ErrCodeInvalidInput, "project_path or document is required")
	case o.ProjectPath != "" && o.Document != "":
		return errors.New(errors.ErrCodeInvalidInput, "project_path and document are mutually exclusive")
	case o.Document != "":
		if o.DocumentFormat == "" {
			o.DocumentFormat = string(projectio.FormatTOML)
		}
		if _, err := projectio.ParseFormat(o.DocumentFormat); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// ValidateForCompute fills in default limits and validates them.
func (o *Options) ValidateForCompute() error {
	o.Limits = o.Limits.WithDefaults()
	if err := o.Limits.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLimits, err, "invalid limits")
	}
	o.setLogger()
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	o.Formats = uniqueFormats(o.Formats)
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	if o.Scale == 0 {
		o.Scale = nodelink.DefaultScale
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func uniqueFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Source names the project source for logs and hooks.
func (o *Options) Source() string {
	if o.ProjectPath != "" {
		return o.ProjectPath
	}
	return "inline:" + o.DocumentFormat
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	switch format {
	case FormatDOT, FormatSVG, FormatPDF, FormatPNG:
		opts.Scale = o.Scale
	}
	return opts
}
