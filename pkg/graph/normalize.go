package graph

import "github.com/matzehuels/gfabridge/pkg/gfa"

// Normalize maps a decoded line to its owned record.
//
// Segment, Link and Path lines always normalize; their byte fields are copied
// so the result does not alias the decoder's line buffer. Every other line
// type (header, containment, comment) returns ok == false, which callers treat
// as a filtered line rather than an error.
func Normalize(line gfa.Line) (Record, bool) {
	switch l := line.(type) {
	case *gfa.Segment:
		return Segment{
			Name:     string(l.Name),
			Sequence: string(l.Sequence),
		}, true

	case *gfa.Link:
		return Link{
			FromSegment: string(l.From),
			FromOrient:  l.FromOrient.IsForward(),
			ToSegment:   string(l.To),
			ToOrient:    l.ToOrient.IsForward(),
			Overlap:     string(l.Overlap),
		}, true

	case *gfa.Path:
		steps := make([]Step, len(l.Steps))
		for i, s := range l.Steps {
			steps[i] = Step{Name: string(s.Name), Forward: s.Orient.IsForward()}
		}
		overlaps := make([]string, len(l.Overlaps))
		for i, o := range l.Overlaps {
			overlaps[i] = string(o)
		}
		return Path{
			PathName:     string(l.Name),
			SegmentNames: steps,
			Overlaps:     overlaps,
		}, true
	}
	return nil, false
}

// Orientation converts a stored orientation flag back to the GFA strand.
func Orientation(forward bool) gfa.Orientation {
	if forward {
		return gfa.Forward
	}
	return gfa.Backward
}
