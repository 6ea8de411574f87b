package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
)

const tomlDoc = `
name = "Warehouse"
rainfall_intensity = 100
roof_area = 500.5
design_standard = "EN 12056-3"

[[outlets]]
id = "north"
x = 0
y = 0

[[outlets]]
x = 10.5
y = -2
elevation = 0.2
`

const yamlDoc = `
name: Warehouse
rainfall_intensity: 100
roof_area: 500.5
design_standard: EN 12056-3
outlets:
  - id: north
    x: 0
    y: 0
  - x: 10.5
    y: -2
    elevation: 0.2
`

// A snapshot export carries derived fields that must be ignored.
const jsonDoc = `{
  "name": "Warehouse",
  "rainfall_intensity": 100,
  "roof_area": 500.5,
  "design_standard": "EN 12056-3",
  "outlets": [
    {"id": "north", "x": 0, "y": 0, "flow": 69.4, "status": "ERROR"},
    {"x": 10.5, "y": -2, "elevation": 0.2}
  ],
  "pipes": [{"id": "p1"}]
}`

func TestReadProject(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatTOML, tomlDoc},
		{FormatYAML, yamlDoc},
		{FormatJSON, jsonDoc},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			p, err := ReadProject(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadProject: %v", err)
			}
			if p.Name != "Warehouse" || p.RainfallIntensity != 100 || p.RoofArea != 500.5 || p.DesignStandard != "EN 12056-3" {
				t.Errorf("project = %+v", p)
			}
			if len(p.Outlets) != 2 {
				t.Fatalf("outlets = %d, want 2", len(p.Outlets))
			}
			if p.Outlets[0].ID != "north" || p.Outlets[1].ID != "" {
				t.Errorf("outlet ids = %q, %q", p.Outlets[0].ID, p.Outlets[1].ID)
			}
			o := p.Outlets[1]
			if o.X != 10.5 || o.Y != -2 || o.Elevation != 0.2 {
				t.Errorf("outlet = %+v", o)
			}
			if p.Outlets[0].Flow != 0 || p.Outlets[0].Status != "" {
				t.Errorf("derived fields read from document: %+v", p.Outlets[0].OutletState)
			}
		})
	}
}

func TestReadProjectErrors(t *testing.T) {
	if _, err := ReadProject(strings.NewReader("name = "), FormatTOML); !errors.Is(err, errors.ErrCodeInvalidProject) {
		t.Errorf("bad toml: %v", err)
	}
	if _, err := ReadProject(strings.NewReader("{"), FormatJSON); !errors.Is(err, errors.ErrCodeInvalidProject) {
		t.Errorf("bad json: %v", err)
	}
	if _, err := ReadProject(strings.NewReader("outlets: {a: b"), FormatYAML); !errors.Is(err, errors.ErrCodeInvalidProject) {
		t.Errorf("bad yaml: %v", err)
	}
	if _, err := ReadProject(strings.NewReader(""), "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		code errors.Code
	}{
		{"site.toml", FormatTOML, ""},
		{"dir/site.YAML", FormatYAML, ""},
		{"site.yml", FormatYAML, ""},
		{"site.json", FormatJSON, ""},
		{"site.xml", "", errors.ErrCodeInvalidFormat},
		{"site", "", errors.ErrCodeInvalidFormat},
		{"", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.code != "" {
			if !errors.Is(err, tt.code) {
				t.Errorf("FormatFromPath(%q) error = %v, want %s", tt.path, err, tt.code)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestWriteProjectOmitsDerivedFields(t *testing.T) {
	p := &drainage.Project{
		ID:                "project-1",
		Name:              "Warehouse",
		RainfallIntensity: 100,
		RoofArea:          500,
		Outlets: []drainage.Outlet{{
			ID:          "outlet-1",
			Type:        drainage.OutletSiphonic,
			OutletSpec:  drainage.OutletSpec{X: 1, Y: 2},
			OutletState: drainage.OutletState{Flow: 69.4, Status: drainage.StatusWarning},
		}},
	}

	for _, f := range Formats {
		var buf bytes.Buffer
		if err := WriteProject(&buf, p, f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		out := buf.String()
		if strings.Contains(out, "69.4") || strings.Contains(out, "WARNING") {
			t.Errorf("%s output contains derived fields:\n%s", f, out)
		}
		if !strings.Contains(out, "outlet-1") || !strings.Contains(out, "siphonic") {
			t.Errorf("%s output missing outlet:\n%s", f, out)
		}
	}

	if err := WriteProject(&bytes.Buffer{}, nil, FormatTOML); !errors.Is(err, errors.ErrCodeNoActiveProject) {
		t.Errorf("nil project: %v", err)
	}
}

func TestProjectFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := &drainage.Project{
		Name:              "Depot",
		RainfallIntensity: 250,
		RoofArea:          1200,
		Outlets: []drainage.Outlet{
			{ID: "a", Type: drainage.OutletSiphonic, OutletSpec: drainage.OutletSpec{X: 0, Y: 0}},
			{ID: "b", Type: drainage.OutletSiphonic, OutletSpec: drainage.OutletSpec{X: 12, Y: 3, Elevation: 0.5}},
		},
	}

	path := filepath.Join(dir, "depot.yaml")
	if err := WriteProjectFile(p, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadProjectFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Depot" || len(got.Outlets) != 2 || got.Outlets[1].OutletSpec != p.Outlets[1].OutletSpec {
		t.Errorf("read back %+v", got)
	}
}

func TestReadProjectFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadProjectFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadProjectFile(bad)
	if !errors.Is(err, errors.ErrCodeInvalidProject) || !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("bad file: %v", err)
	}

	if err := WriteProjectFile(&drainage.Project{Name: "x"}, filepath.Join(dir, "out.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("write with bad extension: %v", err)
	}
}
