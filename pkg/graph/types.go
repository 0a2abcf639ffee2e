package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Kind
// =============================================================================

// Kind identifies one of the three record collections.
// The numeric values cross the C boundary and must stay stable.
type Kind uint8

const (
	KindSegment Kind = 0
	KindLink    Kind = 1
	KindPath    Kind = 2
)

// Kinds lists every record kind in ABI order.
var Kinds = []Kind{KindSegment, KindLink, KindPath}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindLink:
		return "link"
	case KindPath:
		return "path"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k <= KindPath }

// ParseKind converts a kind name ("segment", "segments", "link", ...).
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "segment", "segments", "S":
		return KindSegment, true
	case "link", "links", "L":
		return KindLink, true
	case "path", "paths", "P":
		return KindPath, true
	}
	return 0, false
}

// =============================================================================
// Records
// =============================================================================

// Record is a normalized GFA record: a Segment, Link or Path.
type Record interface {
	Kind() Kind
	record()
}

// Segment is a named sequence.
type Segment struct {
	Name     string `json:"name" bson:"name"`
	Sequence string `json:"sequence" bson:"sequence"`
}

// Link joins the ends of two oriented segments. Orientations are true when
// forward.
type Link struct {
	FromSegment string `json:"from_segment" bson:"from_segment"`
	FromOrient  bool   `json:"from_orient" bson:"from_orient"`
	ToSegment   string `json:"to_segment" bson:"to_segment"`
	ToOrient    bool   `json:"to_orient" bson:"to_orient"`
	Overlap     string `json:"overlap" bson:"overlap"`
}

// Path is an ordered walk over oriented segments.
// len(Overlaps) is not checked against len(SegmentNames).
type Path struct {
	PathName     string   `json:"path_name" bson:"path_name"`
	SegmentNames []Step   `json:"segment_names" bson:"segment_names"`
	Overlaps     []string `json:"overlaps" bson:"overlaps"`
}

// Step is one (segment name, orientation) pair of a Path.
type Step struct {
	Name    string `bson:"name"`
	Forward bool   `bson:"forward"`
}

func (Segment) Kind() Kind { return KindSegment }
func (Link) Kind() Kind    { return KindLink }
func (Path) Kind() Kind    { return KindPath }

func (Segment) record() {}
func (Link) record()    {}
func (Path) record()    {}

// MarshalJSON encodes a step as a two-element array: ["A", true].
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Name, s.Forward})
}

// UnmarshalJSON decodes the two-element array form written by MarshalJSON.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("step: want [name, forward], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Name); err != nil {
		return fmt.Errorf("step name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.Forward); err != nil {
		return fmt.Errorf("step orientation: %w", err)
	}
	return nil
}
