// Package ingest turns GFA text into a [graph.Store].
//
// [Ingest] is the pure entry point: split on newline, decode and normalize
// each line, drop anything that does not decode, append the rest in order.
// It cannot fail.
//
// A [Driver] adds sources and bookkeeping on top:
//
//   - IngestReader streams any io.Reader with no line-length limit
//   - Load accepts a local path or an http(s) URL
//   - Fetch retrieves a remote document through pkg/fetch
//
// gzip and zstd input is detected by magic bytes and decompressed on the fly.
//
// # Run States
//
// Each run moves through
//
//	NotStarted -> Fetching -> Decoding -> Complete
//	                  |           |
//	                  +-> Failed <+   (transport error or cancellation)
//
// Local sources skip Fetching. A Failed run returns no store; a document
// with zero records is a Complete run with an empty store.
package ingest
