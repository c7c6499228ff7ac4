package shmregion_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/shmring/fastmq/descriptor"
	"github.com/shmring/fastmq/shmregion"
)

func createBackingFile(t *testing.T, size int64) int {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "shmregion-test-*.shm")
	if err != nil {
		t.Fatalf("create backing file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate backing file: %v", err)
	}
	return int(f.Fd())
}

func TestMapUnalignedOffsetCrossingPageBoundary(t *testing.T) {
	fd := createBackingFile(t, 3*4096)

	// A grantor starting 100 bytes before a page boundary and extending
	// 200 bytes past it must still resolve to a contiguous, correctly
	// offset view despite the mapping being page-aligned underneath.
	g := descriptor.Grantor{FdIndex: 0, Offset: 4096 - 100, Extent: 300}

	r, err := shmregion.Map(descriptor.NewNativeHandle([]int{fd}), g)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer shmregion.Unmap(r)

	if !r.Valid() {
		t.Fatalf("expected Valid region")
	}

	buf := r.Bytes(300)
	if len(buf) != 300 {
		t.Fatalf("Bytes(300) returned %d bytes", len(buf))
	}

	want := bytes.Repeat([]byte{0xAB}, 300)
	copy(buf, want)
	if !bytes.Equal(buf, want) {
		t.Fatalf("write-then-read through the mapped view did not round-trip")
	}
}

func TestMapRejectsOutOfRangeFdIndex(t *testing.T) {
	fd := createBackingFile(t, 4096)

	g := descriptor.Grantor{FdIndex: 5, Offset: 0, Extent: 64}
	_, err := shmregion.Map(descriptor.NewNativeHandle([]int{fd}), g)
	if err == nil {
		t.Fatalf("expected Map to reject an fd index past the handle's fd list")
	}
}

func TestUnmapOnZeroRegionIsNoOp(t *testing.T) {
	if err := shmregion.Unmap(shmregion.Region{}); err != nil {
		t.Fatalf("Unmap(zero Region) = %v, want nil", err)
	}
}

func TestMapTwoGrantorsInSameFileAreIndependentlyVisible(t *testing.T) {
	fd := createBackingFile(t, 3*4096)

	g1 := descriptor.Grantor{FdIndex: 0, Offset: 0, Extent: 8}
	g2 := descriptor.Grantor{FdIndex: 0, Offset: 4096, Extent: 8}

	h := descriptor.NewNativeHandle([]int{fd})
	r1, err := shmregion.Map(h, g1)
	if err != nil {
		t.Fatalf("Map g1: %v", err)
	}
	defer shmregion.Unmap(r1)
	r2, err := shmregion.Map(h, g2)
	if err != nil {
		t.Fatalf("Map g2: %v", err)
	}
	defer shmregion.Unmap(r2)

	r1.Bytes(8)[0] = 1
	r2.Bytes(8)[0] = 2

	if r1.Bytes(8)[0] != 1 || r2.Bytes(8)[0] != 2 {
		t.Fatalf("independent grantors within one file clobbered each other")
	}
}
