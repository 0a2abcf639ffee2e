package view

import (
	"unsafe"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
)

// Walk calls fn with the raw bytes of each element in order, stepping by
// Stride from Base the way a foreign host does. Iteration stops early when fn
// returns false. The byte slices alias store memory.
func Walk(v CollectionView, fn func(i int, elem []byte) bool) {
	for i := 0; i < v.Len; i++ {
		elem := unsafe.Slice((*byte)(unsafe.Add(v.ptr, uintptr(i)*v.Stride)), v.Stride)
		if !fn(i, elem) {
			return
		}
	}
}

// Collect returns the raw bytes of every element.
func Collect(v CollectionView) [][]byte {
	out := make([][]byte, 0, v.Len)
	Walk(v, func(_ int, elem []byte) bool {
		out = append(out, elem)
		return true
	})
	return out
}

// =============================================================================
// Typed Readers
// =============================================================================

// Segment reads element i of a segment view through its raw address.
func (v CollectionView) Segment(i int) (graph.Segment, error) {
	p, err := v.elem(ElemSegment, i)
	if err != nil {
		return graph.Segment{}, err
	}
	return *(*graph.Segment)(p), nil
}

// Link reads element i of a link view through its raw address.
func (v CollectionView) Link(i int) (graph.Link, error) {
	p, err := v.elem(ElemLink, i)
	if err != nil {
		return graph.Link{}, err
	}
	return *(*graph.Link)(p), nil
}

// Path reads element i of a path view through its raw address.
func (v CollectionView) Path(i int) (graph.Path, error) {
	p, err := v.elem(ElemPath, i)
	if err != nil {
		return graph.Path{}, err
	}
	return *(*graph.Path)(p), nil
}

// Step reads element i of a step view through its raw address.
func (v CollectionView) Step(i int) (graph.Step, error) {
	p, err := v.elem(ElemStep, i)
	if err != nil {
		return graph.Step{}, err
	}
	return *(*graph.Step)(p), nil
}

// StringAt reads element i of a string view (such as Overlaps) and returns a
// view of its bytes.
func (v CollectionView) StringAt(i int) (StringView, error) {
	p, err := v.elem(ElemString, i)
	if err != nil {
		return StringView{}, err
	}
	return stringView((*string)(p), v.Epoch), nil
}

func (v CollectionView) elem(want Elem, i int) (unsafe.Pointer, error) {
	if v.Elem != want {
		return nil, errors.New(errors.ErrCodeInvalidKind, "view holds elem %d, not %d", v.Elem, want)
	}
	if i < 0 || i >= v.Len {
		return nil, errors.OutOfRange("view element", i, v.Len)
	}
	return unsafe.Add(v.ptr, uintptr(i)*v.Stride), nil
}
