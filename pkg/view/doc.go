// Package view exposes the records of a [graph.Store] as raw memory views for
// hosts on the far side of a foreign-function boundary.
//
// A [CollectionView] describes one record collection as (Base, Len, Stride):
// record i lives at Base + i*Stride and has the layout reported by [Describe].
// A [StringView] describes the bytes of one string field as (Ptr, Len). Hosts
// read the memory directly; nothing is copied.
//
// # Validity
//
// Every view carries the store epoch it was issued at. Any Append or Grow on
// the store may move backing arrays, after which the view's addresses are
// dangling. Raw views cannot detect this on their own: a host that keeps a
// view across an append reads freed or moved memory.
//
// A [Lease] is the checked way to hand views across. Borrow records the epoch
// and pins every array and string the lease hands out so the garbage
// collector cannot move or free them. Once the store epoch moves the lease
// refuses to issue further views with STALE_VIEW. Release unpins everything.
//
//	lease := view.Borrow(store)
//	defer lease.Release()
//	cv, err := lease.Collection(graph.KindSegment)
//
// # Checking
//
// Kind and field are validated first (INVALID_KIND, INVALID_FIELD), then the
// index (OUT_OF_RANGE). No address is computed for an invalid request.
//
// # Safe fallback
//
// Hosts that cannot pin memory should use [graph.Store.Export] and read the
// JSON document instead.
package view
