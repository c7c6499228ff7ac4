// Package shmregion maps descriptor.Grantor entries into process-local
// address ranges. A grantor addresses an arbitrary intra-object byte
// range, but shared-memory mappings require page-aligned file offsets;
// this package hides that mismatch behind Map/Unmap.
package shmregion

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/shmring/fastmq/descriptor"
)

// ErrInvalidGrantor indicates a grantor's fdIndex does not address a
// file descriptor present in the native handle.
var ErrInvalidGrantor = errors.New("shmregion: grantor fd index out of range")

// ErrMapFailed indicates the underlying platform mapping call failed.
// Per the core's error model this is a fatal, not a recoverable,
// condition: the descriptor asserted the region is mappable.
var ErrMapFailed = errors.New("shmregion: mapping failed")

// Region is a single process-local mapping produced by Map. The zero
// value is the "unmapped" sentinel.
type Region struct {
	mapped []byte // full page-aligned mapping, length L
	offset int    // intra-page offset of the grantor's true start
	extra  any    // platform-private handle (e.g. a Windows mapping object)
}

// Valid reports whether the region names a live mapping.
func (r Region) Valid() bool { return r.mapped != nil }

// Pointer returns the address of the grantor's true (unaligned) start
// within the mapping.
func (r Region) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&r.mapped[r.offset])
}

// Bytes returns the first n bytes of the region starting at the
// grantor's true start, as a slice over the mapping (no copy).
func (r Region) Bytes(n int) []byte {
	return r.mapped[r.offset : r.offset+n : r.offset+n]
}

// Map translates grantor g, interpreted against handle h, into a
// process-local Region. It page-aligns the requested file offset
// downward, maps the resulting (possibly pre-padded) length, and
// returns a Region whose Pointer/Bytes start exactly at g's true
// offset.
func Map(h descriptor.NativeHandle, g descriptor.Grantor) (Region, error) {
	fds := h.Fds()
	if g.FdIndex >= uint32(len(fds)) {
		return Region{}, fmt.Errorf("%w: %d (have %d fds)", ErrInvalidGrantor, g.FdIndex, len(fds))
	}
	fd := fds[g.FdIndex]

	pageSize := uint64(pagesize())
	alignedOffset := (g.Offset / pageSize) * pageSize
	mapLen := (g.Offset - alignedOffset) + g.Extent

	mem, extra, err := mmapFile(fd, int64(alignedOffset), int(mapLen))
	if err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}

	return Region{mapped: mem, offset: int(g.Offset - alignedOffset), extra: extra}, nil
}

// Unmap releases a Region obtained from Map. It is a no-op on the zero
// Region, so it is safe to call unconditionally.
func Unmap(r Region) error {
	if !r.Valid() {
		return nil
	}
	return munmapBytes(r.mapped, r.extra)
}
