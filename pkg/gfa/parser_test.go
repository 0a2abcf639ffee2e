package gfa

import (
	"testing"
)

func TestDecodeSegment(t *testing.T) {
	line, ok := Decode([]byte("S\tA\tACGT\tLN:i:4"))
	if !ok {
		t.Fatal("Decode() rejected a valid segment")
	}
	seg, isSeg := line.(*Segment)
	if !isSeg {
		t.Fatalf("Decode() type = %T, want *Segment", line)
	}
	if string(seg.Name) != "A" || string(seg.Sequence) != "ACGT" {
		t.Errorf("segment = {%s %s}, want {A ACGT}", seg.Name, seg.Sequence)
	}
	if len(seg.Tags) != 1 || string(seg.Tags[0]) != "LN:i:4" {
		t.Errorf("tags = %q", seg.Tags)
	}
}

func TestDecodeLink(t *testing.T) {
	line, ok := Decode([]byte("L\tA\t+\tB\t-\t4M"))
	if !ok {
		t.Fatal("Decode() rejected a valid link")
	}
	l := line.(*Link)
	if string(l.From) != "A" || l.FromOrient != Forward {
		t.Errorf("from = %s%s, want A+", l.From, l.FromOrient)
	}
	if string(l.To) != "B" || l.ToOrient != Backward {
		t.Errorf("to = %s%s, want B-", l.To, l.ToOrient)
	}
	if string(l.Overlap) != "4M" {
		t.Errorf("overlap = %q, want 4M", l.Overlap)
	}
}

func TestDecodePath(t *testing.T) {
	line, ok := Decode([]byte("P\tP1\tA+,B-,C+\t4M,*"))
	if !ok {
		t.Fatal("Decode() rejected a valid path")
	}
	p := line.(*Path)
	if string(p.Name) != "P1" {
		t.Errorf("name = %q", p.Name)
	}
	want := []struct {
		name   string
		orient Orientation
	}{{"A", Forward}, {"B", Backward}, {"C", Forward}}
	if len(p.Steps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(p.Steps), len(want))
	}
	for i, w := range want {
		if string(p.Steps[i].Name) != w.name || p.Steps[i].Orient != w.orient {
			t.Errorf("step %d = %s%s, want %s%s", i, p.Steps[i].Name, p.Steps[i].Orient, w.name, w.orient)
		}
	}
	if len(p.Overlaps) != 2 || string(p.Overlaps[0]) != "4M" || string(p.Overlaps[1]) != "*" {
		t.Errorf("overlaps = %q", p.Overlaps)
	}
}

func TestDecodePathOverlapCountUnchecked(t *testing.T) {
	line, ok := Decode([]byte("P\tP1\tA+,B-\t1M,2M,3M"))
	if !ok {
		t.Fatal("path with surplus overlaps must still decode")
	}
	if got := len(line.(*Path).Overlaps); got != 3 {
		t.Errorf("overlaps = %d, want 3", got)
	}
}

func TestDecodeContainment(t *testing.T) {
	line, ok := Decode([]byte("C\tA\t+\tB\t-\t10\t4M"))
	if !ok {
		t.Fatal("Decode() rejected a valid containment")
	}
	c := line.(*Containment)
	if c.Pos != 10 || c.ContainedOrient != Backward {
		t.Errorf("containment = %+v", c)
	}
}

func TestDecodeNonRecords(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineType
	}{
		{"header", "H\tVN:Z:1.0", TypeHeader},
		{"comment", "# produced by an assembler", TypeComment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, ok := Decode([]byte(tt.line))
			if !ok {
				t.Fatalf("Decode(%q) rejected", tt.line)
			}
			if line.Type() != tt.want {
				t.Errorf("Type() = %c, want %c", line.Type(), tt.want)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"carriage return only", "\r"},
		{"unknown tag", "X\tfoo"},
		{"multi-char tag", "SS\tA\tACGT"},
		{"segment missing sequence", "S\tA"},
		{"segment bad sequence", "S\tA\tAC GT"},
		{"segment name starts with star", "S\t*A\tACGT"},
		{"link bad orientation", "L\tA\tx\tB\t-\t4M"},
		{"link missing overlap", "L\tA\t+\tB\t-"},
		{"link bad overlap", "L\tA\t+\tB\t-\tM4"},
		{"path empty steps", "P\tP1\t\t*"},
		{"path step without orientation", "P\tP1\tA,B+\t*"},
		{"path missing overlaps", "P\tP1\tA+"},
		{"containment bad pos", "C\tA\t+\tB\t-\tx\t4M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if line, ok := Decode([]byte(tt.line)); ok {
				t.Errorf("Decode(%q) = %T, want rejection", tt.line, line)
			}
		})
	}
}

func TestDecodeTrimsCarriageReturn(t *testing.T) {
	line, ok := Decode([]byte("S\tA\tACGT\r"))
	if !ok {
		t.Fatal("Decode() rejected CRLF line")
	}
	if got := string(line.(*Segment).Sequence); got != "ACGT" {
		t.Errorf("sequence = %q, want ACGT", got)
	}
}

func TestValidOverlap(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"*", true},
		{"0M", true},
		{"4M2I10D", true},
		{"12=3X", true},
		{"", false},
		{"M", false},
		{"4", false},
		{"4Q", false},
	}
	for _, tt := range tests {
		if got := validOverlap([]byte(tt.in)); got != tt.want {
			t.Errorf("validOverlap(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrientation(t *testing.T) {
	o, ok := ParseOrientation([]byte("-"))
	if !ok || o != Backward || o.IsForward() || o.String() != "-" {
		t.Errorf("ParseOrientation(-) = %v, %v", o, ok)
	}
	o, ok = ParseOrientation([]byte("+"))
	if !ok || !o.IsForward() || o.String() != "+" {
		t.Errorf("ParseOrientation(+) = %v, %v", o, ok)
	}
	if _, ok := ParseOrientation([]byte("++")); ok {
		t.Error("ParseOrientation(++) should fail")
	}
}
