// Package sink persists ingested documents outside the process.
//
// A [Sink] stores a whole [graph.Store] under a document name and can read
// it back in the same record order. Writing a name that already exists
// replaces the previous document.
//
// Implementations live in subpackages:
//
//   - sink/sqlite: a local SQLite file, one row per record
//   - sink/mongo: one MongoDB document per GFA document
package sink

import (
	"context"
	"errors"

	"github.com/matzehuels/gfabridge/pkg/graph"
)

// ErrNotFound is returned by Read for an unknown document name.
var ErrNotFound = errors.New("document not found in sink")

// Sink stores and retrieves named documents.
type Sink interface {
	Write(ctx context.Context, name string, s *graph.Store) (Summary, error)
	Read(ctx context.Context, name string) (*graph.Store, error)
	Close() error
}

// Summary reports what a Write stored.
type Summary struct {
	Name     string `json:"name"`
	Segments int    `json:"segments"`
	Links    int    `json:"links"`
	Paths    int    `json:"paths"`
}

// Summarize counts the records of s.
func Summarize(name string, s *graph.Store) Summary {
	return Summary{
		Name:     name,
		Segments: s.SegmentCount(),
		Links:    s.LinkCount(),
		Paths:    s.PathCount(),
	}
}
