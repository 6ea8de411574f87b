package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/geometry"
	"github.com/matzehuels/drainline/pkg/render"
)

// DefaultScale is the drawing scale in points per metre of projected space.
const DefaultScale = 20.0

// Diagram colors.
const (
	ColorOK      = "#4CAF50"
	ColorWarning = "#FF9800"
	ColorError   = "#F44336"
	ColorPipe    = "#2196F3"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds plan coordinates and elevation to outlet labels and
	// flow to pipe labels.
	Detailed bool

	// Scale is points per metre; zero means DefaultScale.
	Scale float64
}

// StatusColor returns the fill color for a status. Empty counts as OK.
func StatusColor(s drainage.Status) string {
	switch s {
	case drainage.StatusWarning:
		return ColorWarning
	case drainage.StatusError:
		return ColorError
	default:
		return ColorOK
	}
}

// ToDOT converts a snapshot to Graphviz DOT for the neato engine.
//
// Each outlet is pinned at its projected position, so the diagram matches
// the isometric plan. Pipes are edges in chain order.
func ToDOT(s designer.Snapshot, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("digraph drainage {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=10, fontcolor=white, margin=\"0.05\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=9, penwidth=2, arrowsize=0.6];\n")

	if s.Project == nil {
		buf.WriteString("  label=\"no project\";\n")
		buf.WriteString("}\n")
		return buf.String()
	}
	fmt.Fprintf(&buf, "  label=%q;\n", s.Project.Name)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("\n")

	for _, o := range s.Project.Outlets {
		px, py := geometry.ToProjected(o.X, o.Y)
		attrs := []string{
			fmt.Sprintf("label=%q", outletLabel(o, opts.Detailed)),
			// Screen y grows downward; Graphviz y grows upward.
			fmt.Sprintf("pos=\"%s,%s!\"", formatPoint(px*scale), formatPoint(-py*scale)),
			fmt.Sprintf("fillcolor=%q", StatusColor(o.Status)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", o.ID, strings.Join(attrs, ", "))
	}

	if len(s.Pipes) > 0 {
		buf.WriteString("\n")
	}
	for _, p := range s.Pipes {
		color := ColorPipe
		if p.Status != drainage.StatusOK {
			color = StatusColor(p.Status)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=%q, fontcolor=%q];\n",
			p.FromID, p.ToID, pipeLabel(p, opts.Detailed), color, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func outletLabel(o drainage.Outlet, detailed bool) string {
	label := fmt.Sprintf("%s\n%.2f L/s", o.ID, o.Flow)
	if detailed {
		label += fmt.Sprintf("\n(%s, %s) m\nz %s m", formatPoint(o.X), formatPoint(o.Y), formatPoint(o.Elevation))
	}
	return label
}

func pipeLabel(p drainage.Pipe, detailed bool) string {
	label := fmt.Sprintf("Ø%d · %.2f m/s", p.Diameter, p.Velocity)
	if detailed {
		label += fmt.Sprintf("\n%.2f L/s", p.Flow)
	}
	return label
}

func formatPoint(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT to SVG with the neato engine so pinned positions
// are honored.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root tag with one whose viewBox
// starts at the origin and whose size matches it, so the SVG scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT to PDF through SVG.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT to PNG through SVG at the given scale.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
