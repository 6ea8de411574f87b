// Package render turns a computed drainage design into documents.
//
// Subpackages produce the primary outputs:
//
//   - [report]: text and JSON design reports
//   - [nodelink]: a plan diagram of outlets and pipes via Graphviz
//
// This package holds the format conversion they share. [ToPDF] and [ToPNG]
// convert SVG using the external rsvg-convert tool from librsvg:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// [report]: github.com/matzehuels/drainline/pkg/render/report
// [nodelink]: github.com/matzehuels/drainline/pkg/render/nodelink
package render
