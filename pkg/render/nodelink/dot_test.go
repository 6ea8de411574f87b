package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
)

func snapshot(t *testing.T) designer.Snapshot {
	t.Helper()
	d, err := designer.New(designer.WithIDGenerator(designer.CounterIDs()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateProject("Warehouse", 100, 500); err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{0, 10} {
		if _, err := d.AddOutlet(x, 0, 0); err != nil {
			t.Fatal(err)
		}
	}
	return d.Snapshot()
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(snapshot(t), Options{})

	for _, want := range []string{
		"digraph drainage",
		"layout=neato",
		`label="Warehouse"`,
		`"outlet-1" [label="outlet-1\n69.44 L/s", pos="0,0!", fillcolor="#4CAF50"]`,
		`pos="200,-100!"`,
		`"outlet-1" -> "outlet-2"`,
		`label="Ø200 · 2.21 m/s"`,
		`color="#2196F3"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "L/s\\n(") {
		t.Error("ToDOT() non-detailed output contains coordinates")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(snapshot(t), Options{Detailed: true, Scale: 10})

	for _, want := range []string{`(10, 0) m\nz 0 m`, `2.21 m/s\n138.89 L/s`, `pos="100,-50!"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() detailed missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_StatusColors(t *testing.T) {
	s := designer.Snapshot{
		Project: &drainage.Project{Name: "x", Outlets: []drainage.Outlet{
			{ID: "a", OutletState: drainage.OutletState{Status: drainage.StatusWarning}},
			{ID: "b", OutletState: drainage.OutletState{Status: drainage.StatusError}},
		}},
		Pipes: []drainage.Pipe{{ID: "p", FromID: "a", ToID: "b", Diameter: 200, Status: drainage.StatusError}},
	}
	dot := ToDOT(s, Options{})

	if !strings.Contains(dot, `fillcolor="#FF9800"`) || !strings.Contains(dot, `fillcolor="#F44336"`) {
		t.Errorf("outlet colors missing\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "b" [label="Ø200 · 0.00 m/s", color="#F44336"`) {
		t.Errorf("error pipe not colored\n%s", dot)
	}
}

func TestToDOT_NoProject(t *testing.T) {
	dot := ToDOT(designer.Snapshot{}, Options{})
	if !strings.Contains(dot, `label="no project"`) || strings.Contains(dot, "->") {
		t.Errorf("ToDOT() = %s", dot)
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status drainage.Status
		want   string
	}{
		{drainage.StatusOK, ColorOK},
		{"", ColorOK},
		{drainage.StatusWarning, ColorWarning},
		{drainage.StatusError, ColorError},
	}
	for _, tt := range tests {
		if got := StatusColor(tt.status); got != tt.want {
			t.Errorf("StatusColor(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "normalizes offset viewBox",
			input: `<svg width="100pt" height="50pt" viewBox="10 20 800 600">`,
			want:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">`,
		},
		{
			name:  "negative origin",
			input: `<svg viewBox="-4 -4 120.5 80">`,
			want:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80">`,
		},
		{
			name:  "no viewBox unchanged",
			input: `<svg width="10" height="10">`,
			want:  `<svg width="10" height="10">`,
		},
		{
			name:  "zero size unchanged",
			input: `<svg viewBox="0 0 0 10">`,
			want:  `<svg viewBox="0 0 0 10">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.input))); got != tt.want {
				t.Errorf("normalizeViewBox() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(snapshot(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(string(svg), "outlet-2") {
		t.Error("RenderSVG() output missing outlet label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "not valid DOT {{{"); err == nil {
		t.Error("RenderSVG() should fail on invalid DOT")
	}
}
