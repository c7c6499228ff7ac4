package descriptor_test

import (
	"testing"

	"github.com/shmring/fastmq/descriptor"
)

func TestZeroNativeHandleIsInvalid(t *testing.T) {
	var h descriptor.NativeHandle
	if h.IsValid() {
		t.Fatalf("zero NativeHandle should be invalid")
	}
}

func TestNewNativeHandleIsValid(t *testing.T) {
	h := descriptor.NewNativeHandle([]int{3, 4, 5})
	if !h.IsValid() {
		t.Fatalf("NewNativeHandle should produce a valid handle")
	}
	if got := h.Fds(); len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("Fds() = %v, want [3 4 5]", got)
	}
}

func TestDescriptorAccessorsRoundTrip(t *testing.T) {
	grantors := []descriptor.Grantor{
		{FdIndex: 0, Offset: 0, Extent: 8},
		{FdIndex: 0, Offset: 8, Extent: 8},
		{FdIndex: 0, Offset: 16, Extent: 1024},
	}
	h := descriptor.NewNativeHandle([]int{7})
	d := descriptor.New(1024, 8, grantors, h)

	if d.Size() != 1024 {
		t.Fatalf("Size() = %d, want 1024", d.Size())
	}
	if d.Quantum() != 8 {
		t.Fatalf("Quantum() = %d, want 8", d.Quantum())
	}
	if d.CountGrantors() != 3 {
		t.Fatalf("CountGrantors() = %d, want 3", d.CountGrantors())
	}
	if d.NativeHandle().Fds()[0] != 7 {
		t.Fatalf("NativeHandle() did not round-trip")
	}
}

func TestDescriptorGrantorsAreCopiedNotAliased(t *testing.T) {
	grantors := []descriptor.Grantor{{FdIndex: 0, Offset: 0, Extent: 1}}
	d := descriptor.New(1, 1, grantors, descriptor.NewNativeHandle([]int{0}))

	grantors[0].Offset = 99
	if d.Grantors()[0].Offset == 99 {
		t.Fatalf("Descriptor aliased the caller's grantor slice; mutation after New leaked through")
	}
}

func TestFixedGrantorPositions(t *testing.T) {
	if descriptor.ReadPointerPos != 0 || descriptor.WritePointerPos != 1 || descriptor.DataRingPos != 2 {
		t.Fatalf("fixed grantor positions changed: read=%d write=%d data=%d",
			descriptor.ReadPointerPos, descriptor.WritePointerPos, descriptor.DataRingPos)
	}
	if descriptor.MinGrantorCount != 3 {
		t.Fatalf("MinGrantorCount = %d, want 3", descriptor.MinGrantorCount)
	}
}
