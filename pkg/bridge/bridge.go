// Package bridge is the handle-based query surface behind the C ABI.
//
// Foreign callers never see Go pointers to stores. They hold an integer
// [Handle] issued by a [Registry] and pass it back with every query. Each
// handle owns one immutable store and one [view.Lease]; every view issued
// for the handle stays pinned until [Registry.Free].
//
// Methods return ordinary Go errors. [errors.StatusOf] turns them into the
// numeric status codes the C shim returns:
//
//	0 OK  1 OUT_OF_RANGE  2 INVALID_KIND  3 INVALID_FIELD
//	4 UNKNOWN_HANDLE  5 TRANSPORT  6 STALE_VIEW  7 INTERNAL
package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/gfa"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/ingest"
	"github.com/matzehuels/gfabridge/pkg/observability"
	"github.com/matzehuels/gfabridge/pkg/view"
)

// Handle identifies a store held by a Registry. Zero is never issued.
type Handle int64

type entry struct {
	store *graph.Store
	lease *view.Lease
}

// Registry owns the stores handed across the boundary. It is safe for
// concurrent use; calls are serialized.
type Registry struct {
	driver *ingest.Driver

	mu      sync.Mutex
	next    Handle
	entries map[Handle]*entry
	lastErr string
}

// NewRegistry creates an empty Registry. driver is used for Fetch and Load;
// nil gets a default driver.
func NewRegistry(driver *ingest.Driver) *Registry {
	if driver == nil {
		driver = ingest.NewDriver(ingest.Options{})
	}
	return &Registry{driver: driver, entries: make(map[Handle]*entry)}
}

// =============================================================================
// Lifecycle
// =============================================================================

// Parse ingests text and returns a handle to the new store. It cannot fail.
func (r *Registry) Parse(text string) Handle {
	return r.open(ingest.Ingest(text))
}

// Fetch retrieves url and returns a handle. On failure no handle is issued.
func (r *Registry) Fetch(ctx context.Context, url string) (Handle, error) {
	s, _, err := r.driver.Fetch(ctx, url)
	if err != nil {
		return 0, r.fail(err)
	}
	return r.open(s), nil
}

// Load ingests a local path or URL and returns a handle.
func (r *Registry) Load(ctx context.Context, src string) (Handle, error) {
	s, _, err := r.driver.Load(ctx, src)
	if err != nil {
		return 0, r.fail(err)
	}
	return r.open(s), nil
}

// Adopt registers an existing store.
func (r *Registry) Adopt(s *graph.Store) Handle { return r.open(s) }

// Free releases the store behind h and unpins its views. Any view issued
// for h is dangling afterwards.
func (r *Registry) Free(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return r.failLocked(unknownHandle(h))
	}
	e.lease.Release()
	delete(r.entries, h)
	observability.Bridge().OnHandleFree(int64(h))
	return nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Store returns the store behind h for in-process callers.
func (r *Registry) Store(h Handle) (*graph.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return nil, r.failLocked(unknownHandle(h))
	}
	return e.store, nil
}

// LastError returns the message of the most recent failed call.
func (r *Registry) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// =============================================================================
// Queries
// =============================================================================

// Count returns the number of records of kind in h.
func (r *Registry) Count(h Handle, kind int32) (int, error) {
	var n int
	err := r.with(h, kind, func(e *entry, k graph.Kind) (err error) {
		n, err = e.store.Count(k)
		return err
	})
	return n, err
}

// Collection returns a pinned view over every record of kind in h.
func (r *Registry) Collection(h Handle, kind int32) (view.CollectionView, error) {
	var v view.CollectionView
	err := r.with(h, kind, func(e *entry, k graph.Kind) (err error) {
		v, err = e.lease.Collection(k)
		return err
	})
	return v, err
}

// String returns a pinned view of string field id field of record index.
// Field ids follow view.StringFields.
func (r *Registry) String(h Handle, kind int32, index int, field int32) (view.StringView, error) {
	var v view.StringView
	err := r.with(h, kind, func(e *entry, k graph.Kind) error {
		name, err := view.FieldName(k, int(field))
		if err != nil {
			return err
		}
		v, err = e.lease.String(k, index, name)
		return err
	})
	return v, err
}

// StepName returns a pinned view of the segment name of a path step.
func (r *Registry) StepName(h Handle, path, step int) (view.StringView, error) {
	var v view.StringView
	err := r.with(h, int32(graph.KindPath), func(e *entry, _ graph.Kind) (err error) {
		v, err = e.lease.StepName(path, step)
		return err
	})
	return v, err
}

// Overlap returns a pinned view of one overlap of a path.
func (r *Registry) Overlap(h Handle, path, j int) (view.StringView, error) {
	var v view.StringView
	err := r.with(h, int32(graph.KindPath), func(e *entry, _ graph.Kind) (err error) {
		v, err = e.lease.Overlap(path, j)
		return err
	})
	return v, err
}

// Steps returns a pinned view over the steps of a path.
func (r *Registry) Steps(h Handle, path int) (view.CollectionView, error) {
	var v view.CollectionView
	err := r.with(h, int32(graph.KindPath), func(e *entry, _ graph.Kind) (err error) {
		v, err = e.lease.Steps(path)
		return err
	})
	return v, err
}

// Overlaps returns a pinned view over the overlap strings of a path.
func (r *Registry) Overlaps(h Handle, path int) (view.CollectionView, error) {
	var v view.CollectionView
	err := r.with(h, int32(graph.KindPath), func(e *entry, _ graph.Kind) (err error) {
		v, err = e.lease.Overlaps(path)
		return err
	})
	return v, err
}

// ExportJSON serializes the store behind h.
func (r *Registry) ExportJSON(h Handle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return nil, r.failLocked(unknownHandle(h))
	}
	data, err := json.Marshal(e.store.Export())
	if err != nil {
		return nil, r.failLocked(errors.Wrap(errors.ErrCodeInternal, err, "export handle %d", h))
	}
	return data, nil
}

// =============================================================================
// Stateless Queries
// =============================================================================

// RecordSize returns the stride of kind.
func RecordSize(kind int32) (uintptr, error) {
	k, err := toKind(kind)
	if err != nil {
		return 0, err
	}
	return view.RecordSize(k)
}

// StringSize returns the size of one string header.
func StringSize() uintptr { return view.StringHeaderSize() }

// Describe returns the JSON layout description of kind.
func Describe(kind int32) ([]byte, error) {
	k, err := toKind(kind)
	if err != nil {
		return nil, err
	}
	l, err := view.Describe(k)
	if err != nil {
		return nil, err
	}
	return json.Marshal(l)
}

// ParseLine decodes and normalizes a single line and returns it as
// externally tagged JSON, or null when the line is not a record.
func ParseLine(line string) []byte {
	decoded, ok := gfa.Decode([]byte(line))
	if !ok {
		return []byte("null")
	}
	rec, _ := graph.Normalize(decoded)
	data, err := graph.MarshalRecord(rec)
	if err != nil {
		return []byte("null")
	}
	return data
}

// =============================================================================
// Internal Implementation
// =============================================================================

func (r *Registry) open(s *graph.Store) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	h := r.next
	r.entries[h] = &entry{store: s, lease: view.Borrow(s)}
	observability.Bridge().OnHandleOpen(int64(h), s.Len())
	return h
}

// with resolves h and kind and runs fn under the registry lock.
func (r *Registry) with(h Handle, kind int32, fn func(*entry, graph.Kind) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return r.failLocked(unknownHandle(h))
	}
	k, err := toKind(kind)
	if err != nil {
		return r.failLocked(err)
	}
	if err := fn(e, k); err != nil {
		return r.failLocked(err)
	}
	return nil
}

func (r *Registry) fail(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failLocked(err)
}

func (r *Registry) failLocked(err error) error {
	r.lastErr = err.Error()
	return err
}

func toKind(kind int32) (graph.Kind, error) {
	if kind < 0 || kind > int32(graph.KindPath) {
		return 0, errors.New(errors.ErrCodeInvalidKind, "unknown record kind %d", kind)
	}
	return graph.Kind(kind), nil
}

func unknownHandle(h Handle) error {
	return errors.New(errors.ErrCodeUnknownHandle, "unknown handle %d", h)
}
