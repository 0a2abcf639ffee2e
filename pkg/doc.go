// Package pkg provides the libraries behind gfabridge.
//
// # Overview
//
// gfabridge ingests GFA 1 assembly graphs and hands the resulting records to
// foreign callers without copying them. The pkg directory is organized as:
//
//  1. [gfa] - Line decoding (borrowed byte slices, no allocation per field)
//  2. [graph] - Owned records, the append-only Store and the JSON document
//  3. [view] - Raw address views, record layouts and pinning leases
//  4. [ingest] - The ingestion driver (local files, URLs, gzip and zstd)
//  5. [bridge] - Integer handles and numeric status codes for the C ABI
//  6. [fetch], [cache], [httputil] - Same-origin retrieval with retry and caching
//  7. [sink], [server], [render] - Databases, HTTP and Graphviz outputs
//
// # Architecture
//
// The typical data flow through gfabridge:
//
//	GFA text (file, URL, gzip, zstd)
//	         ↓
//	    [ingest] driver, one line at a time
//	         ↓
//	    [gfa].Decode → [graph].Normalize → [graph].Store
//	         ↓
//	    [view] collection and string views, or [graph].Document JSON
//
// # Quick Start
//
//	store := ingest.Ingest("S\tA\tACGT\nS\tB\tGG\nL\tA\t+\tB\t-\t2M\n")
//
//	lease := view.Borrow(store)
//	defer lease.Release()
//
//	segs, _ := lease.Collection(graph.KindSegment)
//	// segs.Base, segs.Len, segs.Stride describe the segment array
//
//	seq, _ := lease.String(graph.KindSegment, 0, "sequence")
//	// seq.Ptr, seq.Len point at "ACGT"
//
// # Error Handling
//
// Every package returns errors from [errors]. Boundary callers convert them
// with errors.StatusOf into the stable numeric status codes.
//
// [gfa]: github.com/matzehuels/gfabridge/pkg/gfa
// [graph]: github.com/matzehuels/gfabridge/pkg/graph
// [view]: github.com/matzehuels/gfabridge/pkg/view
// [ingest]: github.com/matzehuels/gfabridge/pkg/ingest
// [bridge]: github.com/matzehuels/gfabridge/pkg/bridge
// [fetch]: github.com/matzehuels/gfabridge/pkg/fetch
// [cache]: github.com/matzehuels/gfabridge/pkg/cache
// [httputil]: github.com/matzehuels/gfabridge/pkg/httputil
// [sink]: github.com/matzehuels/gfabridge/pkg/sink
// [server]: github.com/matzehuels/gfabridge/pkg/server
// [render]: github.com/matzehuels/gfabridge/pkg/render
// [errors]: github.com/matzehuels/gfabridge/pkg/errors
package pkg
