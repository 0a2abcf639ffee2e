package graph

import (
	"slices"

	"github.com/matzehuels/gfabridge/pkg/errors"
)

// Store owns the normalized records of one document.
//
// The zero value is an empty, usable Store. A Store is built once by a single
// writer and read many times afterwards; it is not safe for concurrent use
// while Append is running.
//
// Every call that may move backing storage (Append, Grow) advances the epoch.
// Views issued by pkg/view remember the epoch they were created at; any
// epoch change invalidates them.
type Store struct {
	segments []Segment
	links    []Link
	paths    []Path
	epoch    uint64
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{} }

// Append adds r to the collection matching its kind.
// It is O(1) amortized and invalidates every previously issued view.
// A nil record, including a typed nil pointer, is ignored.
func (s *Store) Append(r Record) {
	switch r := r.(type) {
	case Segment:
		s.segments = append(s.segments, r)
	case *Segment:
		if r == nil {
			return
		}
		s.segments = append(s.segments, *r)
	case Link:
		s.links = append(s.links, r)
	case *Link:
		if r == nil {
			return
		}
		s.links = append(s.links, *r)
	case Path:
		s.paths = append(s.paths, r)
	case *Path:
		if r == nil {
			return
		}
		s.paths = append(s.paths, *r)
	default:
		return
	}
	s.epoch++
}

// Grow reserves room for n more records of kind k.
// Like Append it invalidates every previously issued view.
func (s *Store) Grow(k Kind, n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grow by negative count %d", n)
	}
	switch k {
	case KindSegment:
		s.segments = slices.Grow(s.segments, n)
	case KindLink:
		s.links = slices.Grow(s.links, n)
	case KindPath:
		s.paths = slices.Grow(s.paths, n)
	default:
		return invalidKind(k)
	}
	s.epoch++
	return nil
}

// Epoch returns the number of storage-changing operations performed so far.
func (s *Store) Epoch() uint64 { return s.epoch }

// =============================================================================
// Counts
// =============================================================================

// SegmentCount returns the number of segments.
func (s *Store) SegmentCount() int { return len(s.segments) }

// LinkCount returns the number of links.
func (s *Store) LinkCount() int { return len(s.links) }

// PathCount returns the number of paths.
func (s *Store) PathCount() int { return len(s.paths) }

// Len returns the total number of records of all kinds.
func (s *Store) Len() int { return len(s.segments) + len(s.links) + len(s.paths) }

// Count returns the number of records of kind k.
func (s *Store) Count(k Kind) (int, error) {
	switch k {
	case KindSegment:
		return len(s.segments), nil
	case KindLink:
		return len(s.links), nil
	case KindPath:
		return len(s.paths), nil
	}
	return 0, invalidKind(k)
}

// =============================================================================
// Indexed Access
// =============================================================================

// SegmentAt returns the i-th segment.
func (s *Store) SegmentAt(i int) (Segment, error) {
	if i < 0 || i >= len(s.segments) {
		return Segment{}, errors.OutOfRange("segment", i, len(s.segments))
	}
	return s.segments[i], nil
}

// LinkAt returns the i-th link.
func (s *Store) LinkAt(i int) (Link, error) {
	if i < 0 || i >= len(s.links) {
		return Link{}, errors.OutOfRange("link", i, len(s.links))
	}
	return s.links[i], nil
}

// PathAt returns the i-th path. The returned Path shares its step and overlap
// slices with the Store; callers must not modify them.
func (s *Store) PathAt(i int) (Path, error) {
	if i < 0 || i >= len(s.paths) {
		return Path{}, errors.OutOfRange("path", i, len(s.paths))
	}
	return s.paths[i], nil
}

// RecordAt returns the i-th record of kind k.
func (s *Store) RecordAt(k Kind, i int) (Record, error) {
	switch k {
	case KindSegment:
		return s.SegmentAt(i)
	case KindLink:
		return s.LinkAt(i)
	case KindPath:
		return s.PathAt(i)
	}
	return nil, invalidKind(k)
}

// =============================================================================
// Backing Storage
// =============================================================================

// Segments returns the backing slice of segments.
// The slice aliases Store memory: it must not be modified and is invalidated
// by the next Append.
func (s *Store) Segments() []Segment { return s.segments }

// Links returns the backing slice of links. See [Store.Segments].
func (s *Store) Links() []Link { return s.links }

// Paths returns the backing slice of paths. See [Store.Segments].
func (s *Store) Paths() []Path { return s.paths }

func invalidKind(k Kind) error {
	return errors.New(errors.ErrCodeInvalidKind, "unknown record kind %d", uint8(k))
}
