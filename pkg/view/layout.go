package view

import (
	"unsafe"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
)

// =============================================================================
// Layout Description
// =============================================================================

// Field describes one field of a record as laid out in memory.
type Field struct {
	Name   string  `json:"name"`
	Offset uintptr `json:"offset"`
	Size   uintptr `json:"size"`
	Type   string  `json:"type"`
}

// Layout describes the in-memory shape of one element type.
type Layout struct {
	Name   string  `json:"name"`
	Size   uintptr `json:"size"`
	Align  uintptr `json:"align"`
	Fields []Field `json:"fields"`
}

// Type names used in Field.Type.
const (
	TypeString = "string" // {data *byte, len int}
	TypeBool   = "bool"   // one byte, 0 or 1
	TypeSteps  = "[]step" // {data *Step, len int, cap int}
	TypeSlice  = "[]string"
)

var (
	stringSize = unsafe.Sizeof("")
	boolSize   = unsafe.Sizeof(false)
	sliceSize  = unsafe.Sizeof([]string(nil))
)

// RecordSize returns the stride of one record of kind k in bytes.
func RecordSize(k graph.Kind) (uintptr, error) {
	switch k {
	case graph.KindSegment:
		return unsafe.Sizeof(graph.Segment{}), nil
	case graph.KindLink:
		return unsafe.Sizeof(graph.Link{}), nil
	case graph.KindPath:
		return unsafe.Sizeof(graph.Path{}), nil
	}
	return 0, invalidKind(k)
}

// StringHeaderSize returns the size of a string header: a data pointer
// followed by a length.
func StringHeaderSize() uintptr { return stringSize }

// StepSize returns the stride of one path step.
func StepSize() uintptr { return unsafe.Sizeof(graph.Step{}) }

// Describe returns the field layout of kind k.
func Describe(k graph.Kind) (Layout, error) {
	switch k {
	case graph.KindSegment:
		var s graph.Segment
		return Layout{
			Name:  "segment",
			Size:  unsafe.Sizeof(s),
			Align: unsafe.Alignof(s),
			Fields: []Field{
				{"name", unsafe.Offsetof(s.Name), stringSize, TypeString},
				{"sequence", unsafe.Offsetof(s.Sequence), stringSize, TypeString},
			},
		}, nil

	case graph.KindLink:
		var l graph.Link
		return Layout{
			Name:  "link",
			Size:  unsafe.Sizeof(l),
			Align: unsafe.Alignof(l),
			Fields: []Field{
				{"from_segment", unsafe.Offsetof(l.FromSegment), stringSize, TypeString},
				{"from_orient", unsafe.Offsetof(l.FromOrient), boolSize, TypeBool},
				{"to_segment", unsafe.Offsetof(l.ToSegment), stringSize, TypeString},
				{"to_orient", unsafe.Offsetof(l.ToOrient), boolSize, TypeBool},
				{"overlap", unsafe.Offsetof(l.Overlap), stringSize, TypeString},
			},
		}, nil

	case graph.KindPath:
		var p graph.Path
		return Layout{
			Name:  "path",
			Size:  unsafe.Sizeof(p),
			Align: unsafe.Alignof(p),
			Fields: []Field{
				{"path_name", unsafe.Offsetof(p.PathName), stringSize, TypeString},
				{"segment_names", unsafe.Offsetof(p.SegmentNames), sliceSize, TypeSteps},
				{"overlaps", unsafe.Offsetof(p.Overlaps), sliceSize, TypeSlice},
			},
		}, nil
	}
	return Layout{}, invalidKind(k)
}

// DescribeStep returns the layout of one path step.
func DescribeStep() Layout {
	var s graph.Step
	return Layout{
		Name:  "step",
		Size:  unsafe.Sizeof(s),
		Align: unsafe.Alignof(s),
		Fields: []Field{
			{"name", unsafe.Offsetof(s.Name), stringSize, TypeString},
			{"forward", unsafe.Offsetof(s.Forward), boolSize, TypeBool},
		},
	}
}

// StringFields lists the top-level string fields of kind k in field-index
// order. The index of a name in this list is its numeric field id at the C
// boundary.
func StringFields(k graph.Kind) []string {
	switch k {
	case graph.KindSegment:
		return []string{"name", "sequence"}
	case graph.KindLink:
		return []string{"from_segment", "to_segment", "overlap"}
	case graph.KindPath:
		return []string{"path_name"}
	}
	return nil
}

// FieldName resolves a numeric field id for kind k.
func FieldName(k graph.Kind, id int) (string, error) {
	if !k.Valid() {
		return "", invalidKind(k)
	}
	fields := StringFields(k)
	if id < 0 || id >= len(fields) {
		return "", errors.New(errors.ErrCodeInvalidField, "%s has no string field %d", k, id)
	}
	return fields[id], nil
}

func invalidKind(k graph.Kind) error {
	return errors.New(errors.ErrCodeInvalidKind, "unknown record kind %d", uint8(k))
}

func invalidField(k graph.Kind, field string) error {
	return errors.New(errors.ErrCodeInvalidField, "%s has no string field %q", k, field)
}
