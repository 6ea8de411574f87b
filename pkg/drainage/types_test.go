package drainage

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusEscalate(t *testing.T) {
	tests := []struct {
		from, other, want Status
	}{
		{StatusOK, StatusOK, StatusOK},
		{StatusOK, StatusWarning, StatusWarning},
		{StatusOK, StatusError, StatusError},
		{StatusWarning, StatusOK, StatusWarning},
		{StatusWarning, StatusError, StatusError},
		{StatusError, StatusWarning, StatusError},
		{StatusError, StatusOK, StatusError},
		{"", StatusOK, StatusOK},
		{"", StatusWarning, StatusWarning},
	}

	for _, tt := range tests {
		if got := tt.from.Escalate(tt.other); got != tt.want {
			t.Errorf("%q.Escalate(%q) = %q, want %q", tt.from, tt.other, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"OK", "WARNING", "ERROR"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"", "ok", "FAIL"} {
		if _, err := ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should fail", s)
		}
	}
}

func TestOutletPatchApply(t *testing.T) {
	x, elev := 4.0, 12.5
	spec := OutletSpec{X: 1, Y: 2, Elevation: 3}

	got := OutletPatch{X: &x, Elevation: &elev}.Apply(spec)
	want := OutletSpec{X: 4, Y: 2, Elevation: 12.5}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}

	if !(OutletPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (OutletPatch{Y: &x}).Empty() {
		t.Error("patch with Y should not be empty")
	}
}

func TestProjectPatchApplyDoesNotMutate(t *testing.T) {
	orig := &Project{
		ID:                "p1",
		Name:              "Hall",
		RainfallIntensity: 100,
		RoofArea:          500,
		Outlets:           []Outlet{{ID: "o1"}},
	}
	name, area := "Hall B", 750.0

	got := ProjectPatch{Name: &name, RoofArea: &area}.Apply(orig)

	if got.Name != "Hall B" || got.RoofArea != 750 || got.RainfallIntensity != 100 {
		t.Errorf("Apply() = %+v", got)
	}
	if orig.Name != "Hall" || orig.RoofArea != 500 {
		t.Errorf("original mutated: %+v", orig)
	}

	got.Outlets[0].ID = "changed"
	if orig.Outlets[0].ID != "o1" {
		t.Error("outlet slice should be copied")
	}
}

func TestProjectOutletLookup(t *testing.T) {
	p := &Project{Outlets: []Outlet{{ID: "a"}, {ID: "b"}}}

	if o, ok := p.Outlet("b"); !ok || o.ID != "b" {
		t.Errorf("Outlet(b) = %+v, %v", o, ok)
	}
	if _, ok := p.Outlet("c"); ok {
		t.Error("Outlet(c) should not be found")
	}
	if !p.HasOutlet("a") || p.HasOutlet("z") {
		t.Error("HasOutlet mismatch")
	}

	var nilProject *Project
	if nilProject.HasOutlet("a") {
		t.Error("nil project has no outlets")
	}
	if nilProject.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestOutletJSONFlattensFieldGroups(t *testing.T) {
	o := Outlet{
		ID:          "o1",
		Type:        OutletSiphonic,
		OutletSpec:  OutletSpec{X: 1, Y: 2, Elevation: 3},
		OutletState: OutletState{Flow: 69.44, Status: StatusOK},
	}

	data, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"x":1`, `"y":2`, `"elevation":3`, `"flow":69.44`, `"status":"OK"`, `"type":"siphonic"`} {
		if !strings.Contains(s, key) {
			t.Errorf("JSON %s missing %s", s, key)
		}
	}
}

func TestValidationResultClone(t *testing.T) {
	v := &ValidationResult{IsValid: true, Status: StatusOK, Messages: []string{"a"}}
	cp := v.Clone()
	cp.Messages[0] = "b"
	if v.Messages[0] != "a" {
		t.Error("Clone should deep-copy messages")
	}

	var nilResult *ValidationResult
	if nilResult.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
