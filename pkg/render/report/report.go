// Package report renders a computed design as a plain-text or JSON report.
//
// The text report has the sections of a design summary: project details,
// outlet table, pipe table, validation results and design notes. Tables
// are drawn with lipgloss/table and carry no color, so the output is safe
// to write to files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/flow"
)

// Title heads every text report.
const Title = "Siphonic Roof Drainage System Report"

// shortIDLen truncates pipe IDs in the compact pipe table.
const shortIDLen = 8

// Options configures the text report.
type Options struct {
	// Detailed adds outlet positions and pipe endpoints and flows.
	Detailed bool

	// GeneratedAt is printed under the title when non-zero. Leave it zero
	// for reproducible output.
	GeneratedAt time.Time
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Text renders the report for s under the given limits.
func Text(s designer.Snapshot, lim drainage.Limits, opts Options) string {
	var b strings.Builder

	b.WriteString(Title + "\n")
	if !opts.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", opts.GeneratedAt.Format(time.RFC1123))
	}
	b.WriteString("\n")

	p := s.Project
	if p == nil {
		b.WriteString("No project data available\n")
		return b.String()
	}

	b.WriteString("Project Details\n")
	writeField(&b, "Project Name", p.Name)
	if p.DesignStandard != "" {
		writeField(&b, "Design Standard", p.DesignStandard)
	}
	writeField(&b, "Rainfall Intensity", formatNumber(p.RainfallIntensity)+" mm/h")
	writeField(&b, "Roof Area", formatNumber(p.RoofArea)+" m²")
	writeField(&b, "Total Flow", fmt.Sprintf("%.2f L/s", s.TotalFlow()))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Outlets (%d)\n", len(p.Outlets))
	if len(p.Outlets) > 0 {
		b.WriteString(outletTable(p.Outlets, opts.Detailed) + "\n")
		writeField(&b, "Average Flow", fmt.Sprintf("%.2f L/s", flow.Mean(p.Outlets)))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Pipes (%d)\n", len(s.Pipes))
	if len(s.Pipes) > 0 {
		b.WriteString(pipeTable(s.Pipes, opts.Detailed) + "\n")
	}
	b.WriteString("\n")

	if v := s.Validation; v != nil {
		b.WriteString("Validation Results\n")
		writeField(&b, "Status", string(v.Status))
		valid := "No"
		if v.IsValid {
			valid = "Yes"
		}
		writeField(&b, "Valid", valid)
		if len(v.Messages) > 0 {
			b.WriteString("  Issues:\n")
			for _, m := range v.Messages {
				fmt.Fprintf(&b, "    • %s\n", m)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Design Notes\n")
	for _, note := range designNotes(lim) {
		fmt.Fprintf(&b, "  • %s\n", note)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-20s %s\n", label+":", value)
}

func outletTable(outlets []drainage.Outlet, detailed bool) string {
	headers := []string{"ID", "Flow (L/s)", "Status"}
	if detailed {
		headers = []string{"ID", "X (m)", "Y (m)", "Elev (m)", "Flow (L/s)", "Status"}
	}

	rows := make([][]string, 0, len(outlets))
	for _, o := range outlets {
		status := string(o.Status)
		if status == "" {
			status = string(drainage.StatusOK)
		}
		q := strconv.FormatFloat(o.Flow, 'f', 2, 64)
		if detailed {
			rows = append(rows, []string{o.ID, formatNumber(o.X), formatNumber(o.Y), formatNumber(o.Elevation), q, status})
		} else {
			rows = append(rows, []string{o.ID, q, status})
		}
	}
	return renderTable(headers, rows)
}

func pipeTable(pipes []drainage.Pipe, detailed bool) string {
	headers := []string{"ID", "Ø (mm)", "V (m/s)", "Status"}
	if detailed {
		headers = []string{"ID", "From", "To", "Flow (L/s)", "Ø (mm)", "V (m/s)", "Length (m)", "Status", "Message"}
	}

	rows := make([][]string, 0, len(pipes))
	for _, p := range pipes {
		velocity := strconv.FormatFloat(p.Velocity, 'f', 2, 64)
		if detailed {
			rows = append(rows, []string{
				p.ID, p.FromID, p.ToID,
				strconv.FormatFloat(p.Flow, 'f', 2, 64),
				strconv.Itoa(p.Diameter), velocity,
				formatNumber(p.Length), string(p.Status), p.Message,
			})
		} else {
			rows = append(rows, []string{shortID(p.ID), strconv.Itoa(p.Diameter), velocity, string(p.Status)})
		}
	}
	return renderTable(headers, rows)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Render()
}

func designNotes(lim drainage.Limits) []string {
	return []string{
		"Siphonic roof drainage system design",
		fmt.Sprintf("Velocity range: %.1f - %.1f m/s", lim.MinVelocity, lim.MaxVelocity),
		fmt.Sprintf("Pipe diameter range: %d - %d mm", lim.MinPipeDiameter, lim.MaxPipeDiameter),
		"Full-bore flow conditions required",
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// formatNumber prints v without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// export is the JSON form of a report.
type export struct {
	designer.Snapshot
	State     designer.State  `json:"state"`
	TotalFlow float64         `json:"total_flow"`
	Limits    drainage.Limits `json:"limits"`
}

// WriteJSON writes the snapshot, its total flow and the limits as indented
// JSON.
func WriteJSON(w io.Writer, s designer.Snapshot, lim drainage.Limits) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export{
		Snapshot:  s,
		State:     s.State(),
		TotalFlow: s.TotalFlow(),
		Limits:    lim,
	}); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
