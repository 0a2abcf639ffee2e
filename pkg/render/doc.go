// Package render groups the visual output formats for GFA graphs.
//
// The [dot] subpackage draws segments as nodes and links as directed edges
// and renders them to SVG with Graphviz:
//
//	src := dot.ToDOT(store, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// [dot]: github.com/matzehuels/gfabridge/pkg/render/dot
package render
