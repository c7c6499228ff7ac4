package ring_test

import (
	"os"
	"testing"

	"github.com/shmring/fastmq/descriptor"
)

// newTestDescriptor lays out a read pointer, a write pointer, and a data
// ring of the given capacity/quantum inside one tmpfs-backed file, and
// returns a descriptor.Descriptor over it. The backing file is removed
// via t.Cleanup.
func newTestDescriptor(t *testing.T, capacity, quantum uint64) descriptor.Descriptor {
	t.Helper()

	const (
		readPtrOff  = 0
		writePtrOff = 4096
		ringOff     = 8192
	)

	f, err := os.CreateTemp(t.TempDir(), "ring-test-*.shm")
	if err != nil {
		t.Fatalf("create backing file: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	if err := f.Truncate(int64(ringOff) + int64(capacity)); err != nil {
		t.Fatalf("truncate backing file: %v", err)
	}

	return descriptor.New(
		capacity,
		quantum,
		[]descriptor.Grantor{
			descriptor.ReadPointerPos:  {FdIndex: 0, Offset: readPtrOff, Extent: 8},
			descriptor.WritePointerPos: {FdIndex: 0, Offset: writePtrOff, Extent: 8},
			descriptor.DataRingPos:     {FdIndex: 0, Offset: ringOff, Extent: capacity},
		},
		descriptor.NewNativeHandle([]int{int(f.Fd())}),
	)
}

// invalidHandleDescriptor returns a descriptor whose native handle is
// invalid, for testing the configuration-error path.
func invalidHandleDescriptor(capacity, quantum uint64) descriptor.Descriptor {
	return descriptor.New(capacity, quantum, []descriptor.Grantor{
		descriptor.ReadPointerPos:  {},
		descriptor.WritePointerPos: {},
		descriptor.DataRingPos:     {},
	}, descriptor.NativeHandle{})
}

// tooFewGrantorsDescriptor returns a descriptor with fewer than
// descriptor.MinGrantorCount grantors.
func tooFewGrantorsDescriptor(t *testing.T, capacity, quantum uint64) descriptor.Descriptor {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "ring-test-*.shm")
	if err != nil {
		t.Fatalf("create backing file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	if err := f.Truncate(4096); err != nil {
		t.Fatalf("truncate backing file: %v", err)
	}
	return descriptor.New(capacity, quantum, []descriptor.Grantor{
		{FdIndex: 0, Offset: 0, Extent: 8},
		{FdIndex: 0, Offset: 8, Extent: 8},
	}, descriptor.NewNativeHandle([]int{int(f.Fd())}))
}
