package drainage

import (
	"fmt"
	"math"
)

// DiameterStep is the spacing of standard pipe diameters in millimetres.
const DiameterStep = 10

// Default engineering constants.
const (
	DefaultMinVelocity          = 1.0 // m/s, minimum for siphonic action
	DefaultMaxVelocity          = 3.0 // m/s, maximum before noise and erosion
	DefaultMinOutlets           = 2
	DefaultMaxOutlets           = 20
	DefaultMinPipeDiameter      = 50  // mm
	DefaultMaxPipeDiameter      = 200 // mm
	DefaultPipeLength           = 5.0 // m, placeholder until real routing exists
	DefaultBalanceTolerance     = 0.10
	DefaultWarnHighFraction     = 0.90
	DefaultWarnLowFraction      = 1.10
	DefaultOutletWarnDeviation  = 0.10
	DefaultOutletErrorDeviation = 0.20
)

// Limits holds the engineering constants consumed by sizing and validation.
type Limits struct {
	MinVelocity     float64 `json:"min_velocity" toml:"min_velocity"`
	MaxVelocity     float64 `json:"max_velocity" toml:"max_velocity"`
	MinOutlets      int     `json:"min_outlets" toml:"min_outlets"`
	MaxOutlets      int     `json:"max_outlets" toml:"max_outlets"`
	MinPipeDiameter int     `json:"min_pipe_diameter" toml:"min_pipe_diameter"`
	MaxPipeDiameter int     `json:"max_pipe_diameter" toml:"max_pipe_diameter"`
	PipeLength      float64 `json:"pipe_length" toml:"pipe_length"`

	// BalanceTolerance is the allowed max deviation from mean outlet flow,
	// as a fraction of the mean, before the system reports imbalance.
	BalanceTolerance float64 `json:"balance_tolerance" toml:"balance_tolerance"`

	// Warning bands as fractions of the velocity limits.
	WarnHighFraction float64 `json:"warn_high_fraction" toml:"warn_high_fraction"`
	WarnLowFraction  float64 `json:"warn_low_fraction" toml:"warn_low_fraction"`

	// Outlet-local status bands on relative flow deviation.
	OutletWarnDeviation  float64 `json:"outlet_warn_deviation" toml:"outlet_warn_deviation"`
	OutletErrorDeviation float64 `json:"outlet_error_deviation" toml:"outlet_error_deviation"`
}

// DefaultLimits returns the standard design limits.
func DefaultLimits() Limits {
	return Limits{
		MinVelocity:          DefaultMinVelocity,
		MaxVelocity:          DefaultMaxVelocity,
		MinOutlets:           DefaultMinOutlets,
		MaxOutlets:           DefaultMaxOutlets,
		MinPipeDiameter:      DefaultMinPipeDiameter,
		MaxPipeDiameter:      DefaultMaxPipeDiameter,
		PipeLength:           DefaultPipeLength,
		BalanceTolerance:     DefaultBalanceTolerance,
		WarnHighFraction:     DefaultWarnHighFraction,
		WarnLowFraction:      DefaultWarnLowFraction,
		OutletWarnDeviation:  DefaultOutletWarnDeviation,
		OutletErrorDeviation: DefaultOutletErrorDeviation,
	}
}

// TargetVelocity is the midpoint of the velocity band; sizing aims for it.
func (l Limits) TargetVelocity() float64 {
	return (l.MinVelocity + l.MaxVelocity) / 2
}

// WithDefaults returns l with every zero field replaced by its default.
//
// MinOutlets is the exception: zero is a usable bound (no minimum), so it is
// only defaulted when l is entirely unset. Decoders of partial limits start
// from [DefaultLimits] so that an omitted min_outlets keeps its default and
// an explicit 0 survives.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l == (Limits{}) {
		return d
	}
	if l.MinVelocity == 0 {
		l.MinVelocity = d.MinVelocity
	}
	if l.MaxVelocity == 0 {
		l.MaxVelocity = d.MaxVelocity
	}
	if l.MaxOutlets == 0 {
		l.MaxOutlets = d.MaxOutlets
	}
	if l.MinPipeDiameter == 0 {
		l.MinPipeDiameter = d.MinPipeDiameter
	}
	if l.MaxPipeDiameter == 0 {
		l.MaxPipeDiameter = d.MaxPipeDiameter
	}
	if l.PipeLength == 0 {
		l.PipeLength = d.PipeLength
	}
	if l.BalanceTolerance == 0 {
		l.BalanceTolerance = d.BalanceTolerance
	}
	if l.WarnHighFraction == 0 {
		l.WarnHighFraction = d.WarnHighFraction
	}
	if l.WarnLowFraction == 0 {
		l.WarnLowFraction = d.WarnLowFraction
	}
	if l.OutletWarnDeviation == 0 {
		l.OutletWarnDeviation = d.OutletWarnDeviation
	}
	if l.OutletErrorDeviation == 0 {
		l.OutletErrorDeviation = d.OutletErrorDeviation
	}
	return l
}

// Validate checks that the limits describe a usable design band.
func (l Limits) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"min_velocity", l.MinVelocity},
		{"max_velocity", l.MaxVelocity},
		{"pipe_length", l.PipeLength},
		{"balance_tolerance", l.BalanceTolerance},
		{"warn_high_fraction", l.WarnHighFraction},
		{"warn_low_fraction", l.WarnLowFraction},
		{"outlet_warn_deviation", l.OutletWarnDeviation},
		{"outlet_error_deviation", l.OutletErrorDeviation},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%s must be a positive finite number (got %g)", f.name, f.v)
		}
	}

	if l.MinVelocity > l.MaxVelocity {
		return fmt.Errorf("min_velocity %g exceeds max_velocity %g", l.MinVelocity, l.MaxVelocity)
	}
	if l.MinOutlets < 0 || l.MaxOutlets < 1 {
		return fmt.Errorf("outlet bounds must be non-negative with max_outlets >= 1 (got %d..%d)", l.MinOutlets, l.MaxOutlets)
	}
	if l.MinOutlets > l.MaxOutlets {
		return fmt.Errorf("min_outlets %d exceeds max_outlets %d", l.MinOutlets, l.MaxOutlets)
	}
	if l.MinPipeDiameter <= 0 || l.MaxPipeDiameter <= 0 {
		return fmt.Errorf("pipe diameters must be positive (got %d..%d)", l.MinPipeDiameter, l.MaxPipeDiameter)
	}
	if l.MinPipeDiameter%DiameterStep != 0 || l.MaxPipeDiameter%DiameterStep != 0 {
		return fmt.Errorf("pipe diameters must be multiples of %d mm (got %d..%d)", DiameterStep, l.MinPipeDiameter, l.MaxPipeDiameter)
	}
	if l.MinPipeDiameter > l.MaxPipeDiameter {
		return fmt.Errorf("min_pipe_diameter %d exceeds max_pipe_diameter %d", l.MinPipeDiameter, l.MaxPipeDiameter)
	}
	if l.OutletWarnDeviation > l.OutletErrorDeviation {
		return fmt.Errorf("outlet_warn_deviation %g exceeds outlet_error_deviation %g", l.OutletWarnDeviation, l.OutletErrorDeviation)
	}
	return nil
}
