package drainage

import (
	"fmt"
	"slices"
)

// =============================================================================
// Status
// =============================================================================

// Status is the three-level verdict shared by outlets, pipes and the system.
type Status string

// Status values, ordered by severity.
const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// severity ranks statuses; unknown or empty statuses rank as OK.
func (s Status) severity() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusError:
		return 2
	default:
		return 0
	}
}

// Escalate returns the more severe of s and other.
// ERROR is never downgraded and WARNING only replaces OK.
func (s Status) Escalate(other Status) Status {
	if other.severity() > s.severity() {
		return other
	}
	if s == "" {
		return StatusOK
	}
	return s
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == StatusOK || s == StatusWarning || s == StatusError
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status: %q (must be OK, WARNING or ERROR)", s)
	}
	return st, nil
}

// =============================================================================
// Outlet
// =============================================================================

// OutletType tags the kind of intake. Only siphonic outlets exist today.
type OutletType string

// OutletSiphonic is the type of every outlet created by the designer.
const OutletSiphonic OutletType = "siphonic"

// OutletSpec holds the user-set fields of an outlet.
type OutletSpec struct {
	X         float64 `json:"x" toml:"x" yaml:"x"`                         // plan position (m)
	Y         float64 `json:"y" toml:"y" yaml:"y"`                         // plan position (m)
	Elevation float64 `json:"elevation" toml:"elevation" yaml:"elevation"` // roof elevation (m)
}

// OutletState holds the derived fields of an outlet.
// Only the recompute writes these.
type OutletState struct {
	Flow   float64 `json:"flow"`             // L/s
	Status Status  `json:"status,omitempty"` // empty until annotated
}

// Outlet is a roof drainage intake point.
type Outlet struct {
	ID   string     `json:"id"`
	Type OutletType `json:"type"`
	OutletSpec
	OutletState
}

// OutletPatch is a partial update of an outlet's input fields.
// Nil fields are left untouched.
type OutletPatch struct {
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Elevation *float64 `json:"elevation,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p OutletPatch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Elevation == nil
}

// Apply returns spec with the non-nil patch fields merged in.
func (p OutletPatch) Apply(spec OutletSpec) OutletSpec {
	if p.X != nil {
		spec.X = *p.X
	}
	if p.Y != nil {
		spec.Y = *p.Y
	}
	if p.Elevation != nil {
		spec.Elevation = *p.Elevation
	}
	return spec
}

// =============================================================================
// Project
// =============================================================================

// Project is the root of a drainage design.
type Project struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	RainfallIntensity float64  `json:"rainfall_intensity"` // mm/h
	RoofArea          float64  `json:"roof_area"`          // m²
	DesignStandard    string   `json:"design_standard,omitempty"`
	Outlets           []Outlet `json:"outlets"`
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Outlets = slices.Clone(p.Outlets)
	if cp.Outlets == nil {
		cp.Outlets = []Outlet{}
	}
	return &cp
}

// Outlet returns the outlet with the given ID.
func (p *Project) Outlet(id string) (Outlet, bool) {
	if p == nil {
		return Outlet{}, false
	}
	i := p.outletIndex(id)
	if i < 0 {
		return Outlet{}, false
	}
	return p.Outlets[i], true
}

func (p *Project) outletIndex(id string) int {
	return slices.IndexFunc(p.Outlets, func(o Outlet) bool { return o.ID == id })
}

// HasOutlet reports whether an outlet with the given ID exists.
func (p *Project) HasOutlet(id string) bool {
	return p != nil && p.outletIndex(id) >= 0
}

// ProjectPatch is a partial update of a project's input fields.
// Outlets are edited through the dedicated outlet operations.
type ProjectPatch struct {
	Name              *string  `json:"name,omitempty"`
	RainfallIntensity *float64 `json:"rainfall_intensity,omitempty"`
	RoofArea          *float64 `json:"roof_area,omitempty"`
	DesignStandard    *string  `json:"design_standard,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.RainfallIntensity == nil && p.RoofArea == nil && p.DesignStandard == nil
}

// Apply merges the non-nil patch fields into a copy of project.
func (p ProjectPatch) Apply(project *Project) *Project {
	cp := project.Clone()
	if p.Name != nil {
		cp.Name = *p.Name
	}
	if p.RainfallIntensity != nil {
		cp.RainfallIntensity = *p.RainfallIntensity
	}
	if p.RoofArea != nil {
		cp.RoofArea = *p.RoofArea
	}
	if p.DesignStandard != nil {
		cp.DesignStandard = *p.DesignStandard
	}
	return cp
}

// =============================================================================
// Pipe
// =============================================================================

// Pipe is a derived segment connecting two outlets.
// FromID and ToID reference outlets by identity; pipes never own outlets.
type Pipe struct {
	ID       string  `json:"id"`
	FromID   string  `json:"from_id"`
	ToID     string  `json:"to_id"`
	Length   float64 `json:"length"`   // m
	Diameter int     `json:"diameter"` // mm
	Velocity float64 `json:"velocity"` // m/s
	Flow     float64 `json:"flow"`     // L/s
	Status   Status  `json:"status"`
	Message  string  `json:"message,omitempty"`
}

// =============================================================================
// Validation
// =============================================================================

// ValidationResult is the verdict of a validation check.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Status   Status   `json:"status"`
	Messages []string `json:"messages"`
}

// Clone returns a deep copy of the result.
func (v *ValidationResult) Clone() *ValidationResult {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Messages = slices.Clone(v.Messages)
	return &cp
}
