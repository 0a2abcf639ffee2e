package view

import (
	"runtime"
	"unsafe"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
)

// Lease is a borrow of a Store for handing views across the boundary.
//
// Every array and string a Lease hands out is pinned until Release, so a host
// may keep the addresses for the lifetime of the lease. Each backing address
// is pinned once however often it is viewed. A Lease checks the
// store epoch on every call and returns STALE_VIEW once it has moved. Views
// issued before the move are not revoked; they simply must not be used.
//
// A Lease is not safe for concurrent use.
type Lease struct {
	store    *graph.Store
	epoch    uint64
	pinner   runtime.Pinner
	pinned   map[unsafe.Pointer]struct{}
	released bool
}

// Borrow starts a lease at the store's current epoch.
func Borrow(s *graph.Store) *Lease {
	return &Lease{store: s, epoch: s.Epoch()}
}

// Epoch returns the store epoch the lease was taken at.
func (l *Lease) Epoch() uint64 { return l.epoch }

// Valid reports whether the lease may still issue views.
func (l *Lease) Valid() bool { return l.check() == nil }

// Release unpins everything handed out. It is safe to call more than once.
func (l *Lease) Release() {
	if l.released {
		return
	}
	l.pinner.Unpin()
	l.pinned = nil
	l.released = true
}

// Collection is the leased form of the package-level Collection.
func (l *Lease) Collection(k graph.Kind) (CollectionView, error) {
	if err := l.check(); err != nil {
		return CollectionView{}, err
	}
	v, err := Collection(l.store, k)
	if err != nil {
		return CollectionView{}, err
	}
	l.pin(v.ptr)
	return v, nil
}

// Steps is the leased form of the package-level Steps.
func (l *Lease) Steps(p int) (CollectionView, error) {
	if err := l.check(); err != nil {
		return CollectionView{}, err
	}
	v, err := Steps(l.store, p)
	if err != nil {
		return CollectionView{}, err
	}
	l.pin(v.ptr)
	return v, nil
}

// Overlaps is the leased form of the package-level Overlaps.
func (l *Lease) Overlaps(p int) (CollectionView, error) {
	if err := l.check(); err != nil {
		return CollectionView{}, err
	}
	v, err := Overlaps(l.store, p)
	if err != nil {
		return CollectionView{}, err
	}
	l.pin(v.ptr)
	return v, nil
}

// String is the leased form of the package-level String.
func (l *Lease) String(k graph.Kind, index int, field string) (StringView, error) {
	if err := l.check(); err != nil {
		return StringView{}, err
	}
	v, err := String(l.store, k, index, field)
	if err != nil {
		return StringView{}, err
	}
	l.pin(unsafe.Pointer(v.data))
	return v, nil
}

// StepName is the leased form of the package-level StepName.
func (l *Lease) StepName(p, step int) (StringView, error) {
	if err := l.check(); err != nil {
		return StringView{}, err
	}
	v, err := StepName(l.store, p, step)
	if err != nil {
		return StringView{}, err
	}
	l.pin(unsafe.Pointer(v.data))
	return v, nil
}

// Overlap is the leased form of the package-level Overlap.
func (l *Lease) Overlap(p, j int) (StringView, error) {
	if err := l.check(); err != nil {
		return StringView{}, err
	}
	v, err := Overlap(l.store, p, j)
	if err != nil {
		return StringView{}, err
	}
	l.pin(unsafe.Pointer(v.data))
	return v, nil
}

func (l *Lease) check() error {
	if l.released {
		return errors.New(errors.ErrCodeStaleView, "lease released")
	}
	if cur := l.store.Epoch(); cur != l.epoch {
		return errors.New(errors.ErrCodeStaleView, "store changed since lease (epoch %d, now %d)", l.epoch, cur)
	}
	return nil
}

// pin ignores nil; empty collections and strings have no backing memory.
func (l *Lease) pin(p unsafe.Pointer) {
	if p == nil {
		return
	}
	if _, ok := l.pinned[p]; ok {
		return
	}
	if l.pinned == nil {
		l.pinned = make(map[unsafe.Pointer]struct{})
	}
	l.pinner.Pin(p)
	l.pinned[p] = struct{}{}
}
