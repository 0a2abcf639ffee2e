package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/gfabridge/pkg/graph"
)

func sampleStore() *graph.Store {
	s := graph.NewStore()
	s.Append(graph.Segment{Name: "A", Sequence: "ACGTACGTAC"})
	s.Append(graph.Segment{Name: "B", Sequence: "*"})
	s.Append(graph.Link{FromSegment: "A", FromOrient: true, ToSegment: "B", ToOrient: false, Overlap: "4M"})
	s.Append(graph.Link{FromSegment: "B", FromOrient: true, ToSegment: "X", ToOrient: true, Overlap: "*"})
	s.Append(graph.Path{
		PathName:     "P1",
		SegmentNames: []graph.Step{{Name: "A", Forward: true}, {Name: "B", Forward: false}},
		Overlaps:     []string{"4M"},
	})
	return s
}

func TestToDOT(t *testing.T) {
	out := ToDOT(sampleStore(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"A" [label="A\n10 bp"];`,
		`"B" [label="B"];`,
		`"A" -> "B" [label="+/- 4M", arrowhead=empty];`,
		`"X" [style="rounded,dashed", fontcolor=grey];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %s\n%s", want, out)
		}
	}
	if strings.Contains(out, "P1") {
		t.Error("paths drawn without Options.Paths")
	}
}

func TestToDOTOptions(t *testing.T) {
	out := ToDOT(sampleStore(), Options{Paths: true, Sequences: true, MaxSequence: 4, LeftToRight: true})
	for _, want := range []string{
		"rankdir=LR;",
		`ACGT…`,
		`label="P1", constraint=false`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %s\n%s", want, out)
		}
	}
}

func TestSequenceLabelLimit(t *testing.T) {
	seq := strings.Repeat("ACGT", 10)
	tests := []struct {
		limit int
		want  string
	}{
		{0, seq[:24] + "…"},
		{-3, seq[:24] + "…"},
		{6, seq[:6] + "…"},
		{40, seq},
	}
	for _, tt := range tests {
		got := segmentLabel(graph.Segment{Name: "S", Sequence: seq}, Options{Sequences: true, MaxSequence: tt.limit})
		if !strings.HasSuffix(got, "\n"+tt.want) {
			t.Errorf("limit %d: label %q, want suffix %q", tt.limit, got, tt.want)
		}
	}
}

func TestToDOTDuplicateSegments(t *testing.T) {
	s := graph.NewStore()
	s.Append(graph.Segment{Name: "A", Sequence: "AC"})
	s.Append(graph.Segment{Name: "A", Sequence: "GT"})
	if n := strings.Count(ToDOT(s, Options{}), `"A" [`); n != 1 {
		t.Errorf("node A declared %d times", n)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleStore(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}
