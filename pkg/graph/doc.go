// Package graph holds the owned, in-memory representation of a GFA document.
//
// # Architecture
//
// The package sits between the line decoder and the boundary view layer:
//
//   - pkg/gfa: decodes one line into borrowed byte slices
//   - [Normalize]: copies a decoded line into an owned [Record]
//   - [Store]: append-only Segments, Links and Paths in input order
//   - pkg/view: raw address views over the Store's backing arrays
//
// # Core Types
//
//   - [Segment]: {name, sequence}
//   - [Link]: {from_segment, from_orient, to_segment, to_orient, overlap}
//   - [Path]: {path_name, segment_names, overlaps}
//   - [Record]: sealed union of the three, tagged by [Kind]
//
// Orientation is stored as a bool, true meaning forward.
//
// Names are stored by value. A Link or Path may name a segment that does not
// exist; the Store does not resolve, index or deduplicate names.
//
// # Addressing
//
// Records are addressed by index only. Index i of a kind is the i-th record of
// that kind in input order. Accessors return an OUT_OF_RANGE error
// (pkg/errors) for i outside [0, count).
//
// # Serialization
//
// [Store.Export] produces a [Document], the safe fallback for callers that
// cannot hold the Store pinned while reading raw views:
//
//	{
//	  "segments": [{"name": "A", "sequence": "ACGT"}],
//	  "links": [{"from_segment": "A", "from_orient": true, "to_segment": "B",
//	             "to_orient": false, "overlap": "4M"}],
//	  "paths": [{"path_name": "P1", "segment_names": [["A", true], ["B", false]],
//	             "overlaps": ["4M"]}]
//	}
//
// # Concurrency
//
// A Store has a single writer. Once ingestion is complete it is read-only and
// safe for concurrent readers. Append must never run concurrently with reads.
package graph
