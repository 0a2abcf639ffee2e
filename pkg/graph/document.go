package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Document Types
// =============================================================================

// Document is the serialized form of a Store.
// Collections are always present, encoding as [] when empty.
type Document struct {
	Segments []Segment `json:"segments" bson:"segments"`
	Links    []Link    `json:"links" bson:"links"`
	Paths    []Path    `json:"paths" bson:"paths"`
}

// Export copies the Store into a Document.
// The Document does not alias Store memory and survives later appends.
func (s *Store) Export() Document {
	doc := Document{
		Segments: make([]Segment, len(s.segments)),
		Links:    make([]Link, len(s.links)),
		Paths:    make([]Path, len(s.paths)),
	}
	copy(doc.Segments, s.segments)
	copy(doc.Links, s.links)
	for i, p := range s.paths {
		doc.Paths[i] = Path{
			PathName:     p.PathName,
			SegmentNames: slices.Clone(p.SegmentNames),
			Overlaps:     slices.Clone(p.Overlaps),
		}
	}
	return doc
}

// Import builds a Store from a Document, preserving record order.
func Import(doc Document) *Store {
	s := NewStore()
	s.segments = slices.Clone(doc.Segments)
	s.links = slices.Clone(doc.Links)
	s.paths = slices.Clone(doc.Paths)
	s.epoch = uint64(s.Len())
	return s
}

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalDocument converts a Store to JSON bytes.
func MarshalDocument(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument writes a Store as JSON to an io.Writer.
// Use MarshalDocument for in-memory serialization or WriteDocumentFile for files.
func WriteDocument(s *Store, w io.Writer) error {
	return writeDocumentTo(s, w)
}

// WriteDocumentFile writes a Store to a JSON file.
// The file is created with 0644 permissions.
func WriteDocumentFile(s *Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDocumentTo(s, f)
}

// ReadDocument decodes a JSON document from an io.Reader into a Store.
func ReadDocument(r io.Reader) (*Store, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Import(doc), nil
}

// ReadDocumentFile reads a JSON file written by WriteDocumentFile.
func ReadDocumentFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// =============================================================================
// Single Records
// =============================================================================

// MarshalRecord encodes a record with an external kind tag:
//
//	{"Segment":{"name":"A","sequence":"ACGT"}}
//
// A nil record (a filtered line) encodes as null.
func MarshalRecord(r Record) ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var tag string
	switch r.Kind() {
	case KindSegment:
		tag = "Segment"
	case KindLink:
		tag = "Link"
	case KindPath:
		tag = "Path"
	}
	return json.Marshal(map[string]Record{tag: r})
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDocumentTo(s *Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Export()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
