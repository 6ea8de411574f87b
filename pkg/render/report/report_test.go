package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
)

func computed(t *testing.T) designer.Snapshot {
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

func TestText(t *testing.T) {
	out := Text(computed(t), drainage.DefaultLimits(), Options{})

	for _, want := range []string{
		Title,
		"Project Name:        Warehouse",
		"Rainfall Intensity:  100 mm/h",
		"Roof Area:           500 m²",
		"Total Flow:          138.89 L/s",
		"Outlets (2)",
		"outlet-1",
		"69.44",
		"Average Flow:        69.44 L/s",
		"Pipes (1)",
		"pipe-1",
		"2.21",
		"Status:              OK",
		"Valid:               Yes",
		"• System validation passed",
		"Velocity range: 1.0 - 3.0 m/s",
		"Pipe diameter range: 50 - 200 mm",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Generated:") {
		t.Error("zero GeneratedAt should omit the timestamp")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("report contains ANSI escapes")
	}
}

func TestTextDetailed(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := Text(computed(t), drainage.DefaultLimits(), Options{Detailed: true, GeneratedAt: at})

	for _, want := range []string{"Generated: Sun, 01 Mar 2026 12:00:00 UTC", "Elev (m)", "From", "Pipe sized correctly"} {
		if !strings.Contains(out, want) {
			t.Errorf("detailed report missing %q\n%s", want, out)
		}
	}
}

func TestTextWithoutProject(t *testing.T) {
	out := Text(designer.Snapshot{}, drainage.DefaultLimits(), Options{})
	if !strings.Contains(out, "No project data available") {
		t.Errorf("report = %q", out)
	}
}

func TestTextShortensLongPipeIDs(t *testing.T) {
	s := designer.Snapshot{
		Project: &drainage.Project{Name: "x", Outlets: []drainage.Outlet{{ID: "a"}, {ID: "b"}}},
		Pipes:   []drainage.Pipe{{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Status: drainage.StatusOK}},
	}
	out := Text(s, drainage.DefaultLimits(), Options{})
	if !strings.Contains(out, "0f8fad5b") || strings.Contains(out, "d9cb") {
		t.Errorf("pipe id not shortened:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, computed(t), drainage.DefaultLimits()); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Project    drainage.Project           `json:"project"`
		Pipes      []drainage.Pipe            `json:"pipes"`
		Validation *drainage.ValidationResult `json:"validation"`
		State      string                     `json:"state"`
		TotalFlow  float64                    `json:"total_flow"`
		Limits     drainage.Limits            `json:"limits"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Project.Name != "Warehouse" || len(got.Pipes) != 1 || got.Validation == nil {
		t.Errorf("decoded = %+v", got)
	}
	if got.State != "computed" || got.Limits.MaxOutlets != 20 {
		t.Errorf("state=%s limits=%+v", got.State, got.Limits)
	}
	if got.TotalFlow < 138.88 || got.TotalFlow > 138.89 {
		t.Errorf("total_flow = %g", got.TotalFlow)
	}
}
