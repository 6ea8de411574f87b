// Package designer owns one drainage design and keeps it computed.
//
// A [Designer] accepts edits (create project, add, move or remove outlets,
// change limits) and after every accepted edit runs the full recompute
// before returning:
//
//  1. flow distribution over the outlets
//  2. chain topology: n outlets give n−1 pipes joining consecutive outlets,
//     each sized for the mean flow of its endpoints
//  3. system validation over outlets and pipes
//  4. outlet status from each outlet's deviation from the mean flow
//
// The result is published as one immutable [Snapshot]. Readers never see a
// project from one edit combined with pipes or validation from another.
//
// # Concurrency
//
// Edits are serialized by a mutex. Snapshot reads are lock-free and may run
// concurrently with edits.
//
// # Errors
//
// An edit that cannot apply (no active project, unknown outlet, bad input)
// leaves the published state untouched and returns a coded error from
// pkg/errors. Callers that only need the state may ignore the error.
// Validation findings are never errors; they are part of the snapshot.
package designer

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
	"github.com/matzehuels/drainline/pkg/flow"
	"github.com/matzehuels/drainline/pkg/geometry"
	"github.com/matzehuels/drainline/pkg/observability"
	"github.com/matzehuels/drainline/pkg/sizing"
	"github.com/matzehuels/drainline/pkg/validation"
)

// Identity kinds passed to an [IDGenerator].
const (
	KindProject = "project"
	KindOutlet  = "outlet"
	KindPipe    = "pipe"
)

// IDGenerator returns a fresh identity for an entity of the given kind.
type IDGenerator func(kind string) string

// UUIDs generates random UUIDs regardless of kind. It is the default.
func UUIDs() IDGenerator {
	return func(string) string { return uuid.NewString() }
}

// CounterIDs generates "<kind>-<n>" identities with one counter per kind.
// Use it where reports must be reproducible.
func CounterIDs() IDGenerator {
	var mu sync.Mutex
	counts := make(map[string]int)
	return func(kind string) string {
		mu.Lock()
		defer mu.Unlock()
		counts[kind]++
		return fmt.Sprintf("%s-%d", kind, counts[kind])
	}
}

// Option configures a Designer.
type Option func(*Designer)

// WithLimits sets the engineering limits. Zero fields take their defaults.
func WithLimits(l drainage.Limits) Option {
	return func(d *Designer) { d.limits = l.WithDefaults() }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Designer) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID identity source.
func WithIDGenerator(g IDGenerator) Option {
	return func(d *Designer) {
		if g != nil {
			d.newID = g
		}
	}
}

// Designer holds a drainage design and its derived network.
type Designer struct {
	mu      sync.Mutex
	limits  drainage.Limits
	newID   IDGenerator
	logger  *log.Logger
	current atomic.Pointer[Snapshot]
}

// New returns a Designer in the Empty state.
func New(opts ...Option) (*Designer, error) {
	d := &Designer{
		limits: drainage.DefaultLimits(),
		newID:  UUIDs(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.limits.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLimits, err, "invalid limits")
	}
	d.current.Store(emptySnapshot())
	return d, nil
}

// Snapshot returns a deep copy of the published state.
func (d *Designer) Snapshot() Snapshot {
	return d.current.Load().Clone()
}

// State returns the lifecycle state of the published snapshot.
func (d *Designer) State() State {
	return d.current.Load().State()
}

// Limits returns the engineering limits in effect.
func (d *Designer) Limits() drainage.Limits {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.limits
}

// CreateProject starts a new project without outlets and returns its ID.
// It fails with PROJECT_EXISTS while another project is active.
func (d *Designer) CreateProject(name string, intensity, area float64) (string, error) {
	const op = "create_project"
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.project() != nil {
		return "", d.reject(op, errors.New(errors.ErrCodeProjectExists, "a project is already active"))
	}
	p := &drainage.Project{
		ID:                d.newID(KindProject),
		Name:              name,
		RainfallIntensity: intensity,
		RoofArea:          area,
		Outlets:           []drainage.Outlet{},
	}
	if err := checkProject(p); err != nil {
		return "", d.reject(op, err)
	}
	d.publish(op, p)
	return p.ID, nil
}

// UpdateProject merges the non-nil patch fields into the active project.
func (d *Designer) UpdateProject(patch drainage.ProjectPatch) error {
	const op = "update_project"
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.project()
	if p == nil {
		return d.reject(op, errNoProject())
	}
	next := patch.Apply(p)
	if err := checkProject(next); err != nil {
		return d.reject(op, err)
	}
	d.publish(op, next)
	return nil
}

// AddOutlet appends a siphonic outlet at plan position (x, y) and returns
// its ID.
func (d *Designer) AddOutlet(x, y, elevation float64) (string, error) {
	const op = "add_outlet"
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.project()
	if p == nil {
		return "", d.reject(op, errNoProject())
	}
	spec := drainage.OutletSpec{X: x, Y: y, Elevation: elevation}
	if err := checkOutletSpec(spec); err != nil {
		return "", d.reject(op, err)
	}

	next := p.Clone()
	o := drainage.Outlet{ID: d.newID(KindOutlet), Type: drainage.OutletSiphonic, OutletSpec: spec}
	next.Outlets = append(next.Outlets, o)
	d.publish(op, next)
	return o.ID, nil
}

// RemoveOutlet removes the outlet with the given ID.
func (d *Designer) RemoveOutlet(id string) error {
	const op = "remove_outlet"
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.project()
	if p == nil {
		return d.reject(op, errNoProject())
	}
	if !p.HasOutlet(id) {
		return d.reject(op, errNoOutlet(id))
	}

	next := p.Clone()
	next.Outlets = slices.DeleteFunc(next.Outlets, func(o drainage.Outlet) bool { return o.ID == id })
	d.publish(op, next)
	return nil
}

// UpdateOutlet merges the non-nil patch fields into the outlet's position
// and elevation.
func (d *Designer) UpdateOutlet(id string, patch drainage.OutletPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateOutlet("update_outlet", id, patch)
}

// DragOutlet moves an outlet by a delta given in projected (screen) space.
// The delta is mapped back to plan coordinates before the update.
func (d *Designer) DragOutlet(id string, dpx, dpy float64) error {
	const op = "drag_outlet"
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.project()
	if p == nil {
		return d.reject(op, errNoProject())
	}
	o, ok := p.Outlet(id)
	if !ok {
		return d.reject(op, errNoOutlet(id))
	}
	x, y := geometry.Translate(o.X, o.Y, dpx, dpy)
	return d.updateOutlet(op, id, drainage.OutletPatch{X: &x, Y: &y})
}

func (d *Designer) updateOutlet(op, id string, patch drainage.OutletPatch) error {
	p := d.project()
	if p == nil {
		return d.reject(op, errNoProject())
	}
	if !p.HasOutlet(id) {
		return d.reject(op, errNoOutlet(id))
	}

	next := p.Clone()
	for i := range next.Outlets {
		if next.Outlets[i].ID == id {
			next.Outlets[i].OutletSpec = patch.Apply(next.Outlets[i].OutletSpec)
			if err := checkOutletSpec(next.Outlets[i].OutletSpec); err != nil {
				return d.reject(op, err)
			}
		}
	}
	d.publish(op, next)
	return nil
}

// Load replaces any active project with the given one and recomputes.
//
// Input fields are taken from the document; derived fields are discarded.
// Missing or duplicate project and outlet IDs are regenerated. The argument
// is not retained. Load returns the ID of the loaded project.
func (d *Designer) Load(project *drainage.Project) (string, error) {
	const op = "load"
	d.mu.Lock()
	defer d.mu.Unlock()

	if project == nil {
		return "", d.reject(op, errors.New(errors.ErrCodeInvalidProject, "no project to load"))
	}
	next := project.Clone()
	if err := checkProject(next); err != nil {
		return "", d.reject(op, err)
	}
	if next.ID == "" {
		next.ID = d.newID(KindProject)
	}

	seen := make(map[string]bool, len(next.Outlets))
	for i := range next.Outlets {
		o := &next.Outlets[i]
		if err := checkOutletSpec(o.OutletSpec); err != nil {
			return "", d.reject(op, errors.Wrap(errors.ErrCodeInvalidProject, err, "outlet %d", i+1))
		}
		switch o.Type {
		case "":
			o.Type = drainage.OutletSiphonic
		case drainage.OutletSiphonic:
		default:
			return "", d.reject(op, errors.New(errors.ErrCodeInvalidProject, "outlet %d: unsupported type %q", i+1, o.Type))
		}
		if o.ID == "" || seen[o.ID] {
			o.ID = d.newID(KindOutlet)
		}
		seen[o.ID] = true
		o.OutletState = drainage.OutletState{}
	}

	d.publish(op, next)
	return next.ID, nil
}

// SetLimits replaces the engineering limits and recomputes the active
// project. Zero fields take their defaults.
func (d *Designer) SetLimits(l drainage.Limits) error {
	const op = "set_limits"
	d.mu.Lock()
	defer d.mu.Unlock()

	l = l.WithDefaults()
	if err := l.Validate(); err != nil {
		return d.reject(op, errors.Wrap(errors.ErrCodeInvalidLimits, err, "invalid limits"))
	}
	d.limits = l
	if p := d.project(); p != nil {
		d.publish(op, p.Clone())
	}
	return nil
}

// Reset discards the project and returns to the initial Empty state.
func (d *Designer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publish("reset", nil)
}

// project returns the published project. Callers must not modify it.
func (d *Designer) project() *drainage.Project {
	return d.current.Load().Project
}

// publish recomputes p and stores the result. p must not be shared.
func (d *Designer) publish(op string, p *drainage.Project) {
	start := time.Now()
	snap := compute(p, d.limits, d.newID)
	d.current.Store(snap)
	elapsed := time.Since(start)

	var outlets int
	if snap.Project != nil {
		outlets = len(snap.Project.Outlets)
	}
	var status string
	if snap.Validation != nil {
		status = string(snap.Validation.Status)
	}
	d.logger.Debug("recomputed design",
		"op", op,
		"outlets", outlets,
		"pipes", len(snap.Pipes),
		"status", status,
		"duration", elapsed)
	observability.Designer().OnMutation(op, outlets, len(snap.Pipes), status, elapsed)
}

func (d *Designer) reject(op string, err error) error {
	d.logger.Debug("rejected edit", "op", op, "err", err)
	observability.Designer().OnRejected(op, err)
	return err
}

// =============================================================================
// Recompute
// =============================================================================

// compute derives the full snapshot for p. It never fails: findings are
// reported in the validation result.
func compute(p *drainage.Project, lim drainage.Limits, newID IDGenerator) *Snapshot {
	if p == nil {
		return emptySnapshot()
	}
	if len(p.Outlets) == 0 {
		return &Snapshot{Project: p, Pipes: []drainage.Pipe{}}
	}

	outlets := flow.CalculateFlows(p)
	pipes := Chain(outlets, lim, newID)
	result := validation.ValidateSystem(outlets, pipes, lim)

	mean := flow.Mean(outlets)
	for i := range outlets {
		outlets[i].Status = OutletStatus(outlets[i].Flow, mean, lim)
	}

	p.Outlets = outlets
	return &Snapshot{Project: p, Pipes: pipes, Validation: &result}
}

// Chain synthesizes the pipes joining consecutive outlets in order. Each pipe
// carries the mean flow of its endpoints and is sized for it.
func Chain(outlets []drainage.Outlet, lim drainage.Limits, newID IDGenerator) []drainage.Pipe {
	if len(outlets) < 2 {
		return []drainage.Pipe{}
	}
	pipes := make([]drainage.Pipe, 0, len(outlets)-1)
	for i := range len(outlets) - 1 {
		from, to := outlets[i], outlets[i+1]
		q := (from.Flow + to.Flow) / 2
		res := sizing.SizePipe(q, lim)
		pipes = append(pipes, drainage.Pipe{
			ID:       newID(KindPipe),
			FromID:   from.ID,
			ToID:     to.ID,
			Length:   lim.PipeLength,
			Diameter: res.Diameter,
			Velocity: res.Velocity,
			Flow:     q,
			Status:   res.Status,
			Message:  res.Message,
		})
	}
	return pipes
}

// OutletStatus classifies an outlet by its relative deviation from the mean
// flow. A zero mean counts as no deviation.
func OutletStatus(outletFlow, mean float64, lim drainage.Limits) drainage.Status {
	var dev float64
	if mean > 0 {
		dev = math.Abs(outletFlow-mean) / mean
	}
	switch {
	case dev > lim.OutletErrorDeviation:
		return drainage.StatusError
	case dev > lim.OutletWarnDeviation:
		return drainage.StatusWarning
	default:
		return drainage.StatusOK
	}
}

// =============================================================================
// Input checks
// =============================================================================

func checkProject(p *drainage.Project) error {
	if err := errors.ValidateProjectName(p.Name); err != nil {
		return err
	}
	if err := errors.ValidatePositive("rainfall_intensity", p.RainfallIntensity); err != nil {
		return err
	}
	return errors.ValidatePositive("roof_area", p.RoofArea)
}

func checkOutletSpec(s drainage.OutletSpec) error {
	if err := errors.ValidateFinite("x", s.X); err != nil {
		return err
	}
	if err := errors.ValidateFinite("y", s.Y); err != nil {
		return err
	}
	return errors.ValidateFinite("elevation", s.Elevation)
}

func errNoProject() error {
	return errors.New(errors.ErrCodeNoActiveProject, "no active project")
}

func errNoOutlet(id string) error {
	return errors.New(errors.ErrCodeOutletNotFound, "outlet %q not found", id)
}
