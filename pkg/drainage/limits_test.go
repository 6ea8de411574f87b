package drainage

import "testing"

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()

	if l.MinVelocity != 1.0 || l.MaxVelocity != 3.0 {
		t.Errorf("velocity band = %g..%g, want 1..3", l.MinVelocity, l.MaxVelocity)
	}
	if l.MinOutlets != 2 || l.MaxOutlets != 20 {
		t.Errorf("outlet bounds = %d..%d, want 2..20", l.MinOutlets, l.MaxOutlets)
	}
	if l.MinPipeDiameter != 50 || l.MaxPipeDiameter != 200 {
		t.Errorf("diameters = %d..%d, want 50..200", l.MinPipeDiameter, l.MaxPipeDiameter)
	}
	if l.PipeLength != 5 {
		t.Errorf("PipeLength = %g, want 5", l.PipeLength)
	}
	if l.TargetVelocity() != 2.0 {
		t.Errorf("TargetVelocity() = %g, want 2", l.TargetVelocity())
	}
	if err := l.Validate(); err != nil {
		t.Errorf("default limits should validate: %v", err)
	}
}

func TestLimitsWithDefaults(t *testing.T) {
	l := Limits{MaxVelocity: 4.0, MaxOutlets: 50}.WithDefaults()

	if l.MaxVelocity != 4.0 || l.MaxOutlets != 50 {
		t.Errorf("explicit values overwritten: %+v", l)
	}
	if l.MinVelocity != DefaultMinVelocity || l.MinPipeDiameter != DefaultMinPipeDiameter {
		t.Errorf("zero values not defaulted: %+v", l)
	}
	if l.OutletErrorDeviation != DefaultOutletErrorDeviation {
		t.Errorf("OutletErrorDeviation = %g", l.OutletErrorDeviation)
	}
	if l.MinOutlets != 0 {
		t.Errorf("MinOutlets = %d, want explicit 0 kept", l.MinOutlets)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("no outlet minimum should validate: %v", err)
	}

	if got := (Limits{}).WithDefaults(); got != DefaultLimits() {
		t.Errorf("empty limits = %+v, want defaults", got)
	}
}

func TestLimitsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Limits)
	}{
		{"negative velocity", func(l *Limits) { l.MinVelocity = -1 }},
		{"inverted velocity", func(l *Limits) { l.MinVelocity, l.MaxVelocity = 3, 1 }},
		{"inverted outlets", func(l *Limits) { l.MinOutlets, l.MaxOutlets = 10, 5 }},
		{"zero max outlets", func(l *Limits) { l.MinOutlets, l.MaxOutlets = 0, 0 }},
		{"diameter not multiple of 10", func(l *Limits) { l.MinPipeDiameter = 55 }},
		{"inverted diameters", func(l *Limits) { l.MinPipeDiameter, l.MaxPipeDiameter = 200, 50 }},
		{"zero diameter", func(l *Limits) { l.MinPipeDiameter = 0 }},
		{"zero pipe length", func(l *Limits) { l.PipeLength = 0 }},
		{"inverted outlet bands", func(l *Limits) { l.OutletWarnDeviation, l.OutletErrorDeviation = 0.3, 0.2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLimits()
			tt.mutate(&l)
			if err := l.Validate(); err == nil {
				t.Errorf("Validate() should fail for %+v", l)
			}
		})
	}
}
