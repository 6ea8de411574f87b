package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
)

// Format is a project document encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON}

// ParseFormat converts a format name ("toml", "yaml", "yml", "json").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported project format %q (must be toml, yaml or json)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateProjectFilename(path); err != nil {
		return "", err
	}
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ContentType returns the MIME type for documents in format f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatJSON:
		return "application/json"
	default:
		return "application/toml"
	}
}

// document is the on-disk form of a project: input fields only.
type document struct {
	ID                string      `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Name              string      `json:"name" toml:"name" yaml:"name"`
	RainfallIntensity float64     `json:"rainfall_intensity" toml:"rainfall_intensity" yaml:"rainfall_intensity"`
	RoofArea          float64     `json:"roof_area" toml:"roof_area" yaml:"roof_area"`
	DesignStandard    string      `json:"design_standard,omitempty" toml:"design_standard,omitempty" yaml:"design_standard,omitempty"`
	Outlets           []outletDoc `json:"outlets" toml:"outlets" yaml:"outlets"`
}

type outletDoc struct {
	ID        string  `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Type      string  `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	X         float64 `json:"x" toml:"x" yaml:"x"`
	Y         float64 `json:"y" toml:"y" yaml:"y"`
	Elevation float64 `json:"elevation" toml:"elevation" yaml:"elevation"`
}

func toDocument(p *drainage.Project) document {
	doc := document{
		ID:                p.ID,
		Name:              p.Name,
		RainfallIntensity: p.RainfallIntensity,
		RoofArea:          p.RoofArea,
		DesignStandard:    p.DesignStandard,
		Outlets:           make([]outletDoc, len(p.Outlets)),
	}
	for i, o := range p.Outlets {
		doc.Outlets[i] = outletDoc{ID: o.ID, Type: string(o.Type), X: o.X, Y: o.Y, Elevation: o.Elevation}
	}
	return doc
}

func (d document) project() *drainage.Project {
	p := &drainage.Project{
		ID:                d.ID,
		Name:              d.Name,
		RainfallIntensity: d.RainfallIntensity,
		RoofArea:          d.RoofArea,
		DesignStandard:    d.DesignStandard,
		Outlets:           make([]drainage.Outlet, len(d.Outlets)),
	}
	for i, o := range d.Outlets {
		p.Outlets[i] = drainage.Outlet{
			ID:         o.ID,
			Type:       drainage.OutletType(o.Type),
			OutletSpec: drainage.OutletSpec{X: o.X, Y: o.Y, Elevation: o.Elevation},
		}
	}
	return p
}

// ReadProject decodes a project document from r.
// The returned project has no derived values; it is not yet validated
// beyond decoding.
func ReadProject(r io.Reader, format Format) (*drainage.Project, error) {
	var doc document
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode yaml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported project format %q", format)
	}
	return doc.project(), nil
}

// ReadProjectFile reads the project document at path, picking the format
// from its extension.
func ReadProjectFile(path string) (*drainage.Project, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "project file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadProject(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WriteProject encodes the input fields of p to w.
func WriteProject(w io.Writer, p *drainage.Project, format Format) error {
	if p == nil {
		return errors.New(errors.ErrCodeNoActiveProject, "no project to write")
	}
	doc := toDocument(p)

	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported project format %q", format)
	}
}

// WriteProjectFile writes p to path, picking the format from its extension.
// The file is written in full or not at all.
func WriteProjectFile(p *drainage.Project, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteProject(&buf, p, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
