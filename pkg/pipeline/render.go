package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/render/nodelink"
	"github.com/matzehuels/drainline/pkg/render/report"
)

// Render generates output artifacts in the requested formats.
// The diagram is converted to DOT once and shared by the graphic formats.
func Render(ctx context.Context, s designer.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		if dot == "" && format != FormatText && format != FormatJSON {
			dot = nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed, Scale: opts.Scale})
		}

		var data []byte
		var err error
		switch format {
		case FormatText:
			data = []byte(report.Text(s, opts.Limits, report.Options{Detailed: opts.Detailed}))
		case FormatJSON:
			var buf bytes.Buffer
			err = report.WriteJSON(&buf, s, opts.Limits)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
