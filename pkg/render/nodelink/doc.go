// Package nodelink draws a drainage network as a node-link diagram.
//
// Outlets become filled circles colored by status and pinned at their
// isometric screen position. Pipes become edges labelled with diameter and
// velocity. Layout is done by Graphviz's neato engine, which keeps pinned
// positions, through [github.com/goccy/go-graphviz].
//
//	dot := nodelink.ToDOT(snapshot, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG go through SVG and need librsvg (rsvg-convert):
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
package nodelink
