// Package descriptor models the out-of-band metadata that names the
// shared-memory regions backing a ring queue: a capacity, a quantum, a
// native handle carrying the file descriptors, and an ordered grantor
// table. Construction and transport of a Descriptor (the IPC handshake
// that hands one from one process to another) is outside this package;
// it only models the shape a caller is expected to have already
// assembled.
package descriptor

// Fixed positions of the core grantors within a Descriptor's grantor
// table. A Descriptor may carry additional grantors past DataRingPos
// (e.g. for an event-flag region); this package and the ring endpoint
// built on top of it ignore anything beyond the first three.
const (
	ReadPointerPos  = 0
	WritePointerPos = 1
	DataRingPos     = 2

	// MinGrantorCount is the minimum number of grantors a Descriptor
	// must carry for the three fixed positions above to be valid.
	MinGrantorCount = 3
)

// Grantor describes one logical region as a byte range within one of
// the native handle's file descriptors.
type Grantor struct {
	FdIndex uint32
	Offset  uint64
	Extent  uint64
}

// NativeHandle carries the ordered file descriptors a Descriptor's
// grantors index into. The zero value is invalid.
type NativeHandle struct {
	fds   []int
	valid bool
}

// NewNativeHandle returns a valid NativeHandle wrapping fds in order.
func NewNativeHandle(fds []int) NativeHandle {
	return NativeHandle{fds: fds, valid: true}
}

// IsValid reports whether the handle is usable. A zero-value
// NativeHandle (as produced by a failed or absent handshake) is never
// valid.
func (h NativeHandle) IsValid() bool {
	return h.valid
}

// Fds returns the ordered file descriptors. Callers must not mutate the
// returned slice.
func (h NativeHandle) Fds() []int {
	return h.fds
}

// Descriptor is an immutable record naming the shared-memory regions
// that make up a ring queue. Descriptors are consumed, not owned: the
// backing memory's lifetime belongs to whoever created it, not to any
// endpoint bound to this Descriptor.
type Descriptor struct {
	size     uint64
	quantum  uint64
	grantors []Grantor
	handle   NativeHandle
}

// New returns a Descriptor over the given size, quantum, grantor table,
// and native handle. It performs no validation; validation happens when
// an endpoint binds to the Descriptor, per the construction state
// machine.
func New(size, quantum uint64, grantors []Grantor, handle NativeHandle) Descriptor {
	return Descriptor{
		size:     size,
		quantum:  quantum,
		grantors: append([]Grantor(nil), grantors...),
		handle:   handle,
	}
}

// Size returns the data ring's capacity in bytes.
func (d Descriptor) Size() uint64 { return d.size }

// Quantum returns the fixed byte width of one record.
func (d Descriptor) Quantum() uint64 { return d.quantum }

// CountGrantors returns the number of grantors in the table.
func (d Descriptor) CountGrantors() int { return len(d.grantors) }

// Grantors returns the ordered grantor table. Callers must not mutate
// the returned slice.
func (d Descriptor) Grantors() []Grantor { return d.grantors }

// NativeHandle returns the handle backing this Descriptor's grantors.
func (d Descriptor) NativeHandle() NativeHandle { return d.handle }
