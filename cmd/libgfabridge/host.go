package main

/*
#include <stdint.h>
#include <stdlib.h>
#include "gfabridge.h"
*/
import "C"

import "unsafe"

// The host* functions call the exported entry points the way a C host does:
// inputs are copied to C memory and results come back through out structs.
// They exist so the package tests drive the real export surface.

type hostCollection struct {
	Base   uintptr
	Len    int64
	Stride uintptr
	Epoch  uint64
}

type hostString struct {
	Ptr   uintptr
	Len   int64
	Epoch uint64
}

func cText(s string) (*C.char, C.int64_t, func()) {
	p := C.CString(s)
	return p, C.int64_t(len(s)), func() { C.free(unsafe.Pointer(p)) }
}

func hostParse(text string) int64 {
	p, n, free := cText(text)
	defer free()
	return int64(gfa_parse(p, n))
}

func hostFree(h int64) int32 {
	return int32(gfa_free(C.int64_t(h)))
}

func hostCount(h int64, kind int32) (int64, int32) {
	var out C.int64_t
	st := gfa_count(C.int64_t(h), C.int32_t(kind), &out)
	return int64(out), int32(st)
}

func hostCollectionOf(h int64, kind int32) (hostCollection, int32) {
	var out C.gfa_collection_view
	st := gfa_collection(C.int64_t(h), C.int32_t(kind), &out)
	return hostCollection{
		Base:   uintptr(out.base),
		Len:    int64(out.len),
		Stride: uintptr(out.stride),
		Epoch:  uint64(out.epoch),
	}, int32(st)
}

func hostStringOf(h int64, kind int32, index int64, field int32) (hostString, int32) {
	var out C.gfa_string_view
	st := gfa_string(C.int64_t(h), C.int32_t(kind), C.int64_t(index), C.int32_t(field), &out)
	return hostString{Ptr: uintptr(out.ptr), Len: int64(out.len), Epoch: uint64(out.epoch)}, int32(st)
}

func hostStepName(h, path, step int64) (hostString, int32) {
	var out C.gfa_string_view
	st := gfa_step_name(C.int64_t(h), C.int64_t(path), C.int64_t(step), &out)
	return hostString{Ptr: uintptr(out.ptr), Len: int64(out.len), Epoch: uint64(out.epoch)}, int32(st)
}

func hostStringSize() uintptr {
	return uintptr(gfa_string_size())
}

func hostExportJSON(h int64) ([]byte, int32) {
	var (
		out    *C.char
		outLen C.int64_t
	)
	st := gfa_export_json(C.int64_t(h), &out, &outLen)
	if out == nil {
		return nil, int32(st)
	}
	defer gfa_free_bytes(out)
	return C.GoBytes(unsafe.Pointer(out), C.int(outLen)), int32(st)
}

func hostParseLine(line string) []byte {
	p, n, free := cText(line)
	defer free()
	var (
		out    *C.char
		outLen C.int64_t
	)
	gfa_parse_line(p, n, &out, &outLen)
	defer gfa_free_bytes(out)
	return C.GoBytes(unsafe.Pointer(out), C.int(outLen))
}

func hostGoString(s string, n int64) string {
	p, _, free := cText(s)
	defer free()
	return goString(p, C.int64_t(n))
}
