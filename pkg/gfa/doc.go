// Package gfa decodes single lines of the Graphical Fragment Assembly (GFA1)
// text format.
//
// # Overview
//
// GFA describes sequence graphs as newline-delimited, tab-separated records.
// Each line is classified by its first field:
//
//	H  header          H	VN:Z:1.0
//	S  segment         S	<name>	<sequence>	[tags...]
//	L  link            L	<from>	<+|->	<to>	<+|->	<overlap>	[tags...]
//	C  containment     C	<container>	<+|->	<contained>	<+|->	<pos>	<overlap>
//	P  path            P	<name>	<seg+,seg-,...>	<overlap,overlap,...>
//	#  comment
//
// The package decodes one line at a time and never looks at neighbouring
// lines: there is no name resolution, no connectivity check and no attempt to
// recover from malformed input.
//
// # Decoding
//
// [Parser.Decode] returns a typed [Line] or reports that the line is not a
// recognised record:
//
//	line, ok := gfa.Decode([]byte("S\tA\tACGT"))
//	if seg, isSeg := line.(*gfa.Segment); ok && isSeg {
//	    fmt.Println(string(seg.Name)) // A
//	}
//
// Malformed lines (wrong field count, invalid names, bad orientation symbols,
// non-CIGAR overlaps) yield ok == false. Callers treat that as "skip this
// line", never as a fatal error.
//
// # Borrowed Bytes
//
// Every []byte field of a decoded record aliases the input line. Decoded
// records are therefore only valid until the caller reuses the line buffer;
// consumers that keep data must copy it (see pkg/graph.Normalize).
//
// Optional tag fields (TAG:TYPE:VALUE) are kept verbatim in Tags and are not
// interpreted.
package gfa
