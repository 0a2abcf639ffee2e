package gfa

// Orientation is the strand of a segment reference.
type Orientation uint8

const (
	// Forward is written "+" in GFA.
	Forward Orientation = iota
	// Backward is written "-" in GFA.
	Backward
)

// ParseOrientation converts a GFA orientation symbol.
func ParseOrientation(b []byte) (Orientation, bool) {
	if len(b) != 1 {
		return Forward, false
	}
	return orientationOf(b[0])
}

func orientationOf(c byte) (Orientation, bool) {
	switch c {
	case '+':
		return Forward, true
	case '-':
		return Backward, true
	}
	return Forward, false
}

// IsForward reports whether o is [Forward].
func (o Orientation) IsForward() bool { return o == Forward }

// String returns the GFA symbol for o.
func (o Orientation) String() string {
	if o == Backward {
		return "-"
	}
	return "+"
}

// LineType is the record tag found in the first field of a line.
type LineType byte

const (
	TypeHeader      LineType = 'H'
	TypeSegment     LineType = 'S'
	TypeLink        LineType = 'L'
	TypeContainment LineType = 'C'
	TypePath        LineType = 'P'
	TypeComment     LineType = '#'
)

// Line is one decoded GFA record. The concrete type is one of *Header,
// *Segment, *Link, *Containment, *Path or *Comment.
type Line interface {
	Type() LineType
}

// Header is an H line.
type Header struct {
	Tags [][]byte
}

// Segment is an S line.
type Segment struct {
	Name     []byte
	Sequence []byte
	Tags     [][]byte
}

// Link is an L line: an overlap between the ends of two oriented segments.
type Link struct {
	From       []byte
	FromOrient Orientation
	To         []byte
	ToOrient   Orientation
	Overlap    []byte
	Tags       [][]byte
}

// Containment is a C line.
type Containment struct {
	Container       []byte
	ContainerOrient Orientation
	Contained       []byte
	ContainedOrient Orientation
	Pos             int
	Overlap         []byte
	Tags            [][]byte
}

// Step is one oriented segment reference within a path.
type Step struct {
	Name   []byte
	Orient Orientation
}

// Path is a P line. Overlaps is not checked against len(Steps).
type Path struct {
	Name     []byte
	Steps    []Step
	Overlaps [][]byte
	Tags     [][]byte
}

// Comment is a line starting with '#'.
type Comment struct {
	Text []byte
}

func (*Header) Type() LineType      { return TypeHeader }
func (*Segment) Type() LineType     { return TypeSegment }
func (*Link) Type() LineType        { return TypeLink }
func (*Containment) Type() LineType { return TypeContainment }
func (*Path) Type() LineType        { return TypePath }
func (*Comment) Type() LineType     { return TypeComment }
