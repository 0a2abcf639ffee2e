// Package dot renders a GFA graph as a Graphviz node-link diagram.
//
// Each segment is a box labelled with its name and length. Each link is an
// edge from the source segment to the target segment, labelled with the two
// orientations and the overlap (for example "+/- 4M"). Reverse-strand ends
// are drawn with a hollow arrowhead. With Options.Paths, every path is added
// as a chain of coloured edges following its steps.
//
// Link and path endpoints that name no segment still produce a node, drawn
// dashed, so dangling references stay visible.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gfabridge/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Sequences adds up to MaxSequence bases of each sequence to its label.
	Sequences   bool
	MaxSequence int

	// Paths draws each path as a coloured edge chain.
	Paths bool

	// LeftToRight lays the graph out horizontally.
	LeftToRight bool
}

var pathColors = []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#a65628"}

// ToDOT converts a store to Graphviz DOT source.
func ToDOT(s *graph.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, s.SegmentCount())
	for _, seg := range s.Segments() {
		if known[seg.Name] {
			continue
		}
		known[seg.Name] = true
		fmt.Fprintf(&buf, "  %q [label=%q];\n", seg.Name, segmentLabel(seg, opts))
	}

	dangling := func(name string) {
		if !known[name] {
			known[name] = true
			fmt.Fprintf(&buf, "  %q [style=\"rounded,dashed\", fontcolor=grey];\n", name)
		}
	}

	buf.WriteString("\n")
	for _, l := range s.Links() {
		dangling(l.FromSegment)
		dangling(l.ToSegment)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.FromSegment, l.ToSegment, linkAttrs(l))
	}

	if opts.Paths {
		for i, p := range s.Paths() {
			color := pathColors[i%len(pathColors)]
			for j := 1; j < len(p.SegmentNames); j++ {
				a, b := p.SegmentNames[j-1], p.SegmentNames[j]
				dangling(a.Name)
				dangling(b.Name)
				fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2, label=%q, constraint=false];\n",
					a.Name, b.Name, color, p.PathName)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func segmentLabel(seg graph.Segment, opts Options) string {
	if seg.Sequence == "*" {
		return seg.Name
	}
	label := fmt.Sprintf("%s\n%d bp", seg.Name, len(seg.Sequence))
	if opts.Sequences {
		limit := opts.MaxSequence
		if limit <= 0 {
			limit = 24
		}
		seq := seg.Sequence
		if len(seq) > limit {
			seq = seq[:limit] + "…"
		}
		label += "\n" + seq
	}
	return label
}

func linkAttrs(l graph.Link) string {
	label := fmt.Sprintf("%s/%s %s", strand(l.FromOrient), strand(l.ToOrient), l.Overlap)
	attrs := fmt.Sprintf("label=%q", label)
	if !l.ToOrient {
		attrs += ", arrowhead=empty"
	}
	if !l.FromOrient {
		attrs += ", dir=both, arrowtail=odot"
	}
	return attrs
}

func strand(forward bool) string {
	return graph.Orientation(forward).String()
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a plain
// viewBox so the diagram scales in a browser.
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
