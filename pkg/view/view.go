package view

import (
	"unsafe"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
)

// Elem identifies the element type a CollectionView walks over.
type Elem uint8

const (
	ElemSegment Elem = iota
	ElemLink
	ElemPath
	ElemStep
	ElemString
)

// CollectionView describes a contiguous array of elements.
//
// Element i starts at Base + i*Stride. An empty collection has Base == 0 and
// Len == 0. The view is valid only while the store's epoch equals Epoch.
type CollectionView struct {
	Base   uintptr `json:"base"`
	Len    int     `json:"len"`
	Stride uintptr `json:"stride"`
	Epoch  uint64  `json:"epoch"`
	Elem   Elem    `json:"elem"`

	ptr unsafe.Pointer
}

// StringView describes the bytes of one string.
//
// An empty string has Ptr == 0 and Len == 0. The view is valid only while the
// store's epoch equals Epoch.
type StringView struct {
	Ptr   uintptr `json:"ptr"`
	Len   int     `json:"len"`
	Epoch uint64  `json:"epoch"`

	data *byte
}

// Bytes returns the viewed bytes without copying. The result aliases store
// memory and must not be modified.
func (v StringView) Bytes() []byte {
	if v.data == nil || v.Len == 0 {
		return nil
	}
	return unsafe.Slice(v.data, v.Len)
}

// String returns a copy of the viewed bytes.
func (v StringView) String() string { return string(v.Bytes()) }

// =============================================================================
// Collections
// =============================================================================

// Collection returns a view over every record of kind k.
func Collection(s *graph.Store, k graph.Kind) (CollectionView, error) {
	switch k {
	case graph.KindSegment:
		return sliceView(s.Segments(), ElemSegment, s.Epoch()), nil
	case graph.KindLink:
		return sliceView(s.Links(), ElemLink, s.Epoch()), nil
	case graph.KindPath:
		return sliceView(s.Paths(), ElemPath, s.Epoch()), nil
	}
	return CollectionView{}, invalidKind(k)
}

// Steps returns a view over the steps of path p.
func Steps(s *graph.Store, p int) (CollectionView, error) {
	path, err := s.PathAt(p)
	if err != nil {
		return CollectionView{}, err
	}
	return sliceView(path.SegmentNames, ElemStep, s.Epoch()), nil
}

// Overlaps returns a view over the overlap strings of path p. Each element is
// a string header of StringHeaderSize bytes.
func Overlaps(s *graph.Store, p int) (CollectionView, error) {
	path, err := s.PathAt(p)
	if err != nil {
		return CollectionView{}, err
	}
	return sliceView(path.Overlaps, ElemString, s.Epoch()), nil
}

func sliceView[T any](items []T, elem Elem, epoch uint64) CollectionView {
	var zero T
	v := CollectionView{
		Stride: unsafe.Sizeof(zero),
		Epoch:  epoch,
		Elem:   elem,
	}
	if len(items) == 0 {
		return v
	}
	v.ptr = unsafe.Pointer(unsafe.SliceData(items))
	v.Base = uintptr(v.ptr)
	v.Len = len(items)
	return v
}

// =============================================================================
// Strings
// =============================================================================

// String returns a view of string field field of record index of kind k.
// Valid fields are listed by StringFields.
func String(s *graph.Store, k graph.Kind, index int, field string) (StringView, error) {
	p, err := fieldPtr(s, k, index, field)
	if err != nil {
		return StringView{}, err
	}
	return stringView(p, s.Epoch()), nil
}

// StepName returns a view of the segment name of step step of path p.
func StepName(s *graph.Store, p, step int) (StringView, error) {
	path, err := s.PathAt(p)
	if err != nil {
		return StringView{}, err
	}
	if step < 0 || step >= len(path.SegmentNames) {
		return StringView{}, errors.OutOfRange("path step", step, len(path.SegmentNames))
	}
	return stringView(&path.SegmentNames[step].Name, s.Epoch()), nil
}

// Overlap returns a view of overlap j of path p.
func Overlap(s *graph.Store, p, j int) (StringView, error) {
	path, err := s.PathAt(p)
	if err != nil {
		return StringView{}, err
	}
	if j < 0 || j >= len(path.Overlaps) {
		return StringView{}, errors.OutOfRange("path overlap", j, len(path.Overlaps))
	}
	return stringView(&path.Overlaps[j], s.Epoch()), nil
}

// fieldPtr locates the string header of a top-level field inside the store's
// backing array. Kind and field are checked before the index.
func fieldPtr(s *graph.Store, k graph.Kind, i int, field string) (*string, error) {
	switch k {
	case graph.KindSegment:
		if field != "name" && field != "sequence" {
			return nil, invalidField(k, field)
		}
		segs := s.Segments()
		if i < 0 || i >= len(segs) {
			return nil, errors.OutOfRange("segment", i, len(segs))
		}
		if field == "name" {
			return &segs[i].Name, nil
		}
		return &segs[i].Sequence, nil

	case graph.KindLink:
		if field != "from_segment" && field != "to_segment" && field != "overlap" {
			return nil, invalidField(k, field)
		}
		links := s.Links()
		if i < 0 || i >= len(links) {
			return nil, errors.OutOfRange("link", i, len(links))
		}
		switch field {
		case "from_segment":
			return &links[i].FromSegment, nil
		case "to_segment":
			return &links[i].ToSegment, nil
		}
		return &links[i].Overlap, nil

	case graph.KindPath:
		if field != "path_name" {
			return nil, invalidField(k, field)
		}
		paths := s.Paths()
		if i < 0 || i >= len(paths) {
			return nil, errors.OutOfRange("path", i, len(paths))
		}
		return &paths[i].PathName, nil
	}
	return nil, invalidKind(k)
}

func stringView(p *string, epoch uint64) StringView {
	v := StringView{Epoch: epoch}
	if len(*p) == 0 {
		return v
	}
	v.data = unsafe.StringData(*p)
	v.Ptr = uintptr(unsafe.Pointer(v.data))
	v.Len = len(*p)
	return v
}
