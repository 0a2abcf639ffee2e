// Command libgfabridge builds the C shared library:
//
//	go build -buildmode=c-shared -o libgfabridge.so ./cmd/libgfabridge
//
// Every function returns an int32 status (see pkg/errors.Status) and writes
// its result through an out pointer. The view structs are declared in
// gfabridge.h. Views hold raw addresses as integers;
// the memory behind them stays pinned until gfa_free is called on the handle.
// Byte buffers returned by gfa_describe, gfa_export_json, gfa_parse_line and
// gfa_last_error are allocated with malloc and must be released with
// gfa_free_bytes.
package main

/*
#include <stdint.h>
#include <stdlib.h>
#include "gfabridge.h"
*/
import "C"

import (
	"context"
	"strings"
	"sync"
	"unsafe"

	"github.com/matzehuels/gfabridge/pkg/bridge"
	"github.com/matzehuels/gfabridge/pkg/cache"
	"github.com/matzehuels/gfabridge/pkg/config"
	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/fetch"
	"github.com/matzehuels/gfabridge/pkg/ingest"
	"github.com/matzehuels/gfabridge/pkg/view"
)

func main() {}

var (
	registryOnce sync.Once
	registry     *bridge.Registry
)

// reg builds the registry on first use from the user's config file. A broken
// config falls back to defaults rather than failing every call.
func reg() *bridge.Registry {
	registryOnce.Do(func() {
		cfg, err := config.LoadDefault()
		if err != nil {
			cfg = config.Default()
		}
		cfg = libraryConfig(cfg)
		opts := ingest.Options{}
		if f, err := fetch.FromConfig(context.Background(), cfg, nil); err == nil {
			opts.Fetcher = f
		}
		registry = bridge.NewRegistry(ingest.NewDriver(opts))
	})
	return registry
}

// libraryConfig adapts cfg for library use. Hosts have no way to refresh or
// clear cached documents, so fetched documents are never cached.
func libraryConfig(cfg config.Config) config.Config {
	cfg.Cache.Backend = cache.BackendNone
	return cfg
}

func status(err error) C.int32_t { return C.int32_t(errors.StatusOf(err)) }

// goString copies n bytes at p. n is used at full width; documents may
// exceed the range of a C int.
func goString(p *C.char, n C.int64_t) string {
	if p == nil || n <= 0 {
		return ""
	}
	return strings.Clone(unsafe.String((*byte)(unsafe.Pointer(p)), int(n)))
}

func putCollection(out *C.gfa_collection_view, v view.CollectionView) {
	out.base = C.uintptr_t(v.Base)
	out.len = C.int64_t(v.Len)
	out.stride = C.uintptr_t(v.Stride)
	out.epoch = C.uint64_t(v.Epoch)
}

func putString(out *C.gfa_string_view, v view.StringView) {
	out.ptr = C.uintptr_t(v.Ptr)
	out.len = C.int64_t(v.Len)
	out.epoch = C.uint64_t(v.Epoch)
}

func putBytes(out **C.char, outLen *C.int64_t, data []byte) {
	*out = (*C.char)(C.CBytes(data))
	*outLen = C.int64_t(len(data))
}

// =============================================================================
// Lifecycle
// =============================================================================

//export gfa_parse
func gfa_parse(text *C.char, n C.int64_t) C.int64_t {
	return C.int64_t(reg().Parse(goString(text, n)))
}

//export gfa_fetch
func gfa_fetch(url *C.char, n C.int64_t, out *C.int64_t) C.int32_t {
	h, err := reg().Fetch(context.Background(), goString(url, n))
	*out = C.int64_t(h)
	return status(err)
}

//export gfa_free
func gfa_free(h C.int64_t) C.int32_t {
	return status(reg().Free(bridge.Handle(h)))
}

// =============================================================================
// Views
// =============================================================================

//export gfa_count
func gfa_count(h C.int64_t, kind C.int32_t, out *C.int64_t) C.int32_t {
	n, err := reg().Count(bridge.Handle(h), int32(kind))
	*out = C.int64_t(n)
	return status(err)
}

//export gfa_collection
func gfa_collection(h C.int64_t, kind C.int32_t, out *C.gfa_collection_view) C.int32_t {
	v, err := reg().Collection(bridge.Handle(h), int32(kind))
	putCollection(out, v)
	return status(err)
}

//export gfa_string
func gfa_string(h C.int64_t, kind C.int32_t, index C.int64_t, field C.int32_t, out *C.gfa_string_view) C.int32_t {
	v, err := reg().String(bridge.Handle(h), int32(kind), int(index), int32(field))
	putString(out, v)
	return status(err)
}

//export gfa_step_name
func gfa_step_name(h C.int64_t, path, step C.int64_t, out *C.gfa_string_view) C.int32_t {
	v, err := reg().StepName(bridge.Handle(h), int(path), int(step))
	putString(out, v)
	return status(err)
}

//export gfa_overlap
func gfa_overlap(h C.int64_t, path, j C.int64_t, out *C.gfa_string_view) C.int32_t {
	v, err := reg().Overlap(bridge.Handle(h), int(path), int(j))
	putString(out, v)
	return status(err)
}

//export gfa_steps
func gfa_steps(h C.int64_t, path C.int64_t, out *C.gfa_collection_view) C.int32_t {
	v, err := reg().Steps(bridge.Handle(h), int(path))
	putCollection(out, v)
	return status(err)
}

//export gfa_overlaps
func gfa_overlaps(h C.int64_t, path C.int64_t, out *C.gfa_collection_view) C.int32_t {
	v, err := reg().Overlaps(bridge.Handle(h), int(path))
	putCollection(out, v)
	return status(err)
}

// =============================================================================
// Layout
// =============================================================================

//export gfa_record_size
func gfa_record_size(kind C.int32_t, out *C.size_t) C.int32_t {
	n, err := bridge.RecordSize(int32(kind))
	*out = C.size_t(n)
	return status(err)
}

//export gfa_string_size
func gfa_string_size() C.size_t {
	return C.size_t(bridge.StringSize())
}

//export gfa_describe
func gfa_describe(kind C.int32_t, out **C.char, outLen *C.int64_t) C.int32_t {
	data, err := bridge.Describe(int32(kind))
	if err != nil {
		return status(err)
	}
	putBytes(out, outLen, data)
	return status(nil)
}

// =============================================================================
// Serialization
// =============================================================================

//export gfa_export_json
func gfa_export_json(h C.int64_t, out **C.char, outLen *C.int64_t) C.int32_t {
	data, err := reg().ExportJSON(bridge.Handle(h))
	if err != nil {
		return status(err)
	}
	putBytes(out, outLen, data)
	return status(nil)
}

//export gfa_parse_line
func gfa_parse_line(line *C.char, n C.int64_t, out **C.char, outLen *C.int64_t) C.int32_t {
	putBytes(out, outLen, bridge.ParseLine(goString(line, n)))
	return status(nil)
}

//export gfa_last_error
func gfa_last_error(out **C.char, outLen *C.int64_t) C.int32_t {
	putBytes(out, outLen, []byte(reg().LastError()))
	return status(nil)
}

//export gfa_free_bytes
func gfa_free_bytes(p *C.char) {
	C.free(unsafe.Pointer(p))
}
