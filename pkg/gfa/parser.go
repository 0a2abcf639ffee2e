package gfa

import (
	"bytes"
	"strconv"
)

// Parser decodes GFA1 lines. The zero value is ready to use and a Parser is
// safe for concurrent use because it holds no state.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser { return &Parser{} }

var defaultParser Parser

// Decode decodes line with the default parser.
func Decode(line []byte) (Line, bool) {
	return defaultParser.Decode(line)
}

// Decode classifies and decodes a single line. A trailing "\r" is ignored.
// It returns ok == false for empty, unknown or malformed lines.
func (p *Parser) Decode(line []byte) (Line, bool) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) == 0 {
		return nil, false
	}
	if line[0] == '#' {
		return &Comment{Text: line[1:]}, true
	}

	fields := bytes.Split(line, []byte{'\t'})
	if len(fields[0]) != 1 {
		return nil, false
	}

	switch LineType(fields[0][0]) {
	case TypeHeader:
		return &Header{Tags: fields[1:]}, true
	case TypeSegment:
		return decodeSegment(fields[1:])
	case TypeLink:
		return decodeLink(fields[1:])
	case TypeContainment:
		return decodeContainment(fields[1:])
	case TypePath:
		return decodePath(fields[1:])
	}
	return nil, false
}

func decodeSegment(f [][]byte) (Line, bool) {
	if len(f) < 2 || !validName(f[0]) || !validSequence(f[1]) {
		return nil, false
	}
	return &Segment{Name: f[0], Sequence: f[1], Tags: f[2:]}, true
}

func decodeLink(f [][]byte) (Line, bool) {
	if len(f) < 5 || !validName(f[0]) || !validName(f[2]) || !validOverlap(f[4]) {
		return nil, false
	}
	fromOrient, ok := ParseOrientation(f[1])
	if !ok {
		return nil, false
	}
	toOrient, ok := ParseOrientation(f[3])
	if !ok {
		return nil, false
	}
	return &Link{
		From:       f[0],
		FromOrient: fromOrient,
		To:         f[2],
		ToOrient:   toOrient,
		Overlap:    f[4],
		Tags:       f[5:],
	}, true
}

func decodeContainment(f [][]byte) (Line, bool) {
	if len(f) < 6 || !validName(f[0]) || !validName(f[2]) || !validOverlap(f[5]) {
		return nil, false
	}
	containerOrient, ok := ParseOrientation(f[1])
	if !ok {
		return nil, false
	}
	containedOrient, ok := ParseOrientation(f[3])
	if !ok {
		return nil, false
	}
	pos, err := strconv.Atoi(string(f[4]))
	if err != nil || pos < 0 {
		return nil, false
	}
	return &Containment{
		Container:       f[0],
		ContainerOrient: containerOrient,
		Contained:       f[2],
		ContainedOrient: containedOrient,
		Pos:             pos,
		Overlap:         f[5],
		Tags:            f[6:],
	}, true
}

func decodePath(f [][]byte) (Line, bool) {
	if len(f) < 3 || !validName(f[0]) {
		return nil, false
	}
	steps, ok := decodeSteps(f[1])
	if !ok {
		return nil, false
	}
	overlaps := bytes.Split(f[2], []byte{','})
	for _, o := range overlaps {
		if !validOverlap(o) {
			return nil, false
		}
	}
	return &Path{Name: f[0], Steps: steps, Overlaps: overlaps, Tags: f[3:]}, true
}

// decodeSteps parses "A+,B-,C+" into oriented steps.
func decodeSteps(b []byte) ([]Step, bool) {
	if len(b) == 0 {
		return nil, false
	}
	parts := bytes.Split(b, []byte{','})
	steps := make([]Step, 0, len(parts))
	for _, part := range parts {
		if len(part) < 2 {
			return nil, false
		}
		orient, ok := orientationOf(part[len(part)-1])
		if !ok {
			return nil, false
		}
		name := part[:len(part)-1]
		if !validName(name) {
			return nil, false
		}
		steps = append(steps, Step{Name: name, Orient: orient})
	}
	return steps, true
}

// =============================================================================
// Field Validation
// =============================================================================

// validName matches [!-)+-<>-~][!-~]*: printable ASCII, not starting with
// '*' or '='.
func validName(b []byte) bool {
	if len(b) == 0 || b[0] == '*' || b[0] == '=' {
		return false
	}
	for _, c := range b {
		if c < '!' || c > '~' {
			return false
		}
	}
	return true
}

// validSequence matches \*|[A-Za-z=.]+.
func validSequence(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if len(b) == 1 && b[0] == '*' {
		return true
	}
	for _, c := range b {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '=', c == '.':
		default:
			return false
		}
	}
	return true
}

// validOverlap matches \*|([0-9]+[MIDNSHPX=])+.
func validOverlap(b []byte) bool {
	if len(b) == 1 && b[0] == '*' {
		return true
	}
	if len(b) == 0 {
		return false
	}
	digits := 0
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case bytes.IndexByte([]byte("MIDNSHPX="), c) >= 0:
			if digits == 0 {
				return false
			}
			digits = 0
		default:
			return false
		}
	}
	return digits == 0
}
