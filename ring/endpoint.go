package ring

import (
	"fmt"
	"sync/atomic"

	"github.com/shmring/fastmq/descriptor"
	"github.com/shmring/fastmq/shmregion"
)

// Endpoint is one process's handle to a shared-memory ring queue, bound
// to a descriptor.Descriptor. Endpoints are single-producer/
// single-reader: only the side that calls Write ever mutates the write
// counter, and only the side that calls Read ever mutates the read
// counter. An Endpoint is not safe for concurrent Write calls, nor for
// concurrent Read calls, but one writer and one reader may call
// concurrently with each other.
type Endpoint struct {
	desc     descriptor.Descriptor
	capacity uint64
	quantum  uint64

	readRegion  shmregion.Region
	writeRegion shmregion.Region
	ringRegion  shmregion.Region

	r *atomic.Uint64 // read counter, shared memory; mutated only by the reader
	w *atomic.Uint64 // write counter, shared memory; mutated only by the writer

	data []byte // view over the ring's C bytes

	valid bool
}

// New binds an Endpoint to d. It validates the descriptor's precondition
// set (handle validity, grantor count, capacity/quantum relationship)
// before attempting any mapping; a descriptor that fails validation
// yields a nil Endpoint and a non-nil error without any region being
// mapped. A mapping failure past that point is treated as fatal by the
// caller's convention, not by this package: New still returns a plain
// error, wrapping shmregion.ErrMapFailed, for the caller to escalate.
//
// Both counters are zeroed unconditionally once mapping succeeds. Binding
// a second endpoint to an already-active queue resets the stream.
func New(d descriptor.Descriptor) (*Endpoint, error) {
	if !d.NativeHandle().IsValid() {
		return nil, ErrInvalidHandle
	}
	if d.CountGrantors() < descriptor.MinGrantorCount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewGrantors, d.CountGrantors(), descriptor.MinGrantorCount)
	}
	if d.Quantum() == 0 || d.Size() == 0 || d.Size()%d.Quantum() != 0 {
		return nil, fmt.Errorf("%w: capacity %d, quantum %d", ErrCapacityNotMultiple, d.Size(), d.Quantum())
	}

	grantors := d.Grantors()
	handle := d.NativeHandle()

	readRegion, err := shmregion.Map(handle, grantors[descriptor.ReadPointerPos])
	if err != nil {
		return nil, fmt.Errorf("map read pointer: %w", err)
	}
	writeRegion, err := shmregion.Map(handle, grantors[descriptor.WritePointerPos])
	if err != nil {
		shmregion.Unmap(readRegion)
		return nil, fmt.Errorf("map write pointer: %w", err)
	}
	ringRegion, err := shmregion.Map(handle, grantors[descriptor.DataRingPos])
	if err != nil {
		shmregion.Unmap(readRegion)
		shmregion.Unmap(writeRegion)
		return nil, fmt.Errorf("map data ring: %w", err)
	}

	e := &Endpoint{
		desc:        d,
		capacity:    d.Size(),
		quantum:     d.Quantum(),
		readRegion:  readRegion,
		writeRegion: writeRegion,
		ringRegion:  ringRegion,
		r:           (*atomic.Uint64)(readRegion.Pointer()),
		w:           (*atomic.Uint64)(writeRegion.Pointer()),
		data:        ringRegion.Bytes(int(d.Size())),
		valid:       true,
	}
	e.r.Store(0)
	e.w.Store(0)

	return e, nil
}

// IsValid reports whether all three regions are mapped and Write/Read
// are usable.
func (e *Endpoint) IsValid() bool {
	return e != nil && e.valid
}

// QuantumSize returns the fixed byte width of one record.
func (e *Endpoint) QuantumSize() uint64 {
	return e.quantum
}

// QuantumCount returns the ring's capacity in records (C / Q).
func (e *Endpoint) QuantumCount() uint64 {
	return e.capacity / e.quantum
}

// Descriptor returns the descriptor this endpoint is bound to, for
// rebroadcasting to a peer.
func (e *Endpoint) Descriptor() descriptor.Descriptor {
	return e.desc
}

// AvailableToRead returns W - R, the number of bytes the reader can
// currently consume. Both loads are relaxed: this is only a hint, since
// any dependent access performs its own acquire load via beginRead or
// beginWrite.
func (e *Endpoint) AvailableToRead() uint64 {
	w := e.w.Load()
	r := e.r.Load()
	return w - r
}

// AvailableToWrite returns C - AvailableToRead(), the number of bytes
// the writer can currently produce.
func (e *Endpoint) AvailableToWrite() uint64 {
	return e.capacity - e.AvailableToRead()
}

// split names the (possibly two-run) byte-range a desired length n
// produces starting at the ring-relative position pos%capacity.
func (e *Endpoint) split(pos, n uint64) (head, tail []byte) {
	offset := pos % e.capacity
	headLen := n
	if rest := e.capacity - offset; rest < n {
		headLen = rest
	}
	tailLen := n - headLen
	return e.data[offset : offset+headLen], e.data[0:tailLen]
}

// beginWrite acquire-loads the reader's counter (establishing the
// happens-before edge with the reader's previous commitRead) and
// relaxed-loads the writer's own counter, then names the transaction for
// n bytes starting at the current write position.
func (e *Endpoint) beginWrite(n uint64) (head, tail []byte) {
	e.r.Load() // acquire; value itself already folded into the caller's capacity check
	w := e.w.Load()
	return e.split(w, n)
}

// commitWrite advances the write counter by n bytes with a release
// store, making the bytes just copied visible to a reader that observes
// the new value via an acquire load.
func (e *Endpoint) commitWrite(n uint64) {
	w := e.w.Load()
	e.w.Store(w + n)
}

// beginRead is the read-side symmetric counterpart of beginWrite.
func (e *Endpoint) beginRead(n uint64) (head, tail []byte) {
	e.w.Load() // acquire
	r := e.r.Load()
	return e.split(r, n)
}

// commitRead is the read-side symmetric counterpart of commitWrite.
func (e *Endpoint) commitRead(n uint64) {
	r := e.r.Load()
	e.r.Store(r + n)
}

// Write copies count records (count*QuantumSize() bytes) from data into
// the ring. If fewer than count*QuantumSize() bytes are currently free,
// Write returns false without any side effect. A zero count always
// succeeds as a no-op, touching neither the ring nor the counters.
// data must hold at least count*QuantumSize() bytes.
func (e *Endpoint) Write(data []byte, count int) bool {
	if !e.IsValid() {
		return false
	}
	n := uint64(count) * e.quantum
	if n == 0 {
		return true
	}
	if e.AvailableToWrite() < n {
		return false
	}

	head, tail := e.beginWrite(n)
	copy(head, data[:len(head)])
	copy(tail, data[len(head):n])
	e.commitWrite(n)

	return true
}

// WriteOne is the unit-count adapter for Write: write(data, 1).
func (e *Endpoint) WriteOne(data []byte) bool {
	return e.Write(data, 1)
}

// Read copies count records (count*QuantumSize() bytes) from the ring
// into dst. If fewer than count*QuantumSize() bytes are currently
// available, Read returns false without any side effect. A zero count
// always succeeds as a no-op. dst must hold at least
// count*QuantumSize() bytes.
func (e *Endpoint) Read(dst []byte, count int) bool {
	if !e.IsValid() {
		return false
	}
	n := uint64(count) * e.quantum
	if n == 0 {
		return true
	}
	if e.AvailableToRead() < n {
		return false
	}

	head, tail := e.beginRead(n)
	copy(dst[:len(head)], head)
	copy(dst[len(head):n], tail)
	e.commitRead(n)

	return true
}

// ReadOne is the unit-count adapter for Read: read(data, 1).
func (e *Endpoint) ReadOne(dst []byte) bool {
	return e.Read(dst, 1)
}

// Close unmaps the three regions backing this endpoint. It is
// idempotent: a second call observes the endpoint already invalid and
// does nothing. The backing shared memory itself is not released; its
// lifetime belongs to whoever created the descriptor.
func (e *Endpoint) Close() error {
	if !e.IsValid() {
		return nil
	}
	e.valid = false

	var firstErr error
	for _, r := range [...]shmregion.Region{e.readRegion, e.writeRegion, e.ringRegion} {
		if err := shmregion.Unmap(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
