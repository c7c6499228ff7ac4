// Package queue is the type-parametric record layer over package ring.
// The core treats records as opaque fixed-width byte quanta; Queue binds
// a concrete Go type T to that quantum, checking at construction that
// the descriptor's quantum equals T's in-memory byte width, the same
// check the original MessageQueue<T> constructor performs against
// sizeof(T).
package queue

import (
	"fmt"
	"unsafe"

	"github.com/shmring/fastmq/descriptor"
	"github.com/shmring/fastmq/ring"
)

// Queue is a ring.Endpoint that reinterprets its byte ring as a stream
// of fixed-width T records. T should be a fixed-size, pointer-free
// struct; Queue enforces only the size match, consistent with the
// core's treatment of records as flat byte sequences.
type Queue[T any] struct {
	ep *ring.Endpoint
}

// New binds a Queue[T] to d, failing with ErrQuantumMismatch if d's
// quantum does not equal sizeof(T). All other construction failures are
// forwarded from ring.New.
func New[T any](d descriptor.Descriptor) (*Queue[T], error) {
	var zero T
	want := uint64(unsafe.Sizeof(zero))
	if d.Quantum() != want {
		return nil, fmt.Errorf("%w: descriptor quantum %d, sizeof(T) %d", ErrQuantumMismatch, d.Quantum(), want)
	}

	ep, err := ring.New(d)
	if err != nil {
		return nil, err
	}
	return &Queue[T]{ep: ep}, nil
}

// IsValid reports whether the underlying endpoint is usable.
func (q *Queue[T]) IsValid() bool { return q.ep.IsValid() }

// AvailableToRead returns the number of bytes the reader can currently
// consume (not a record count, matching the byte-oriented contract of
// the underlying core).
func (q *Queue[T]) AvailableToRead() uint64 { return q.ep.AvailableToRead() }

// AvailableToWrite returns the number of bytes the writer can currently
// produce.
func (q *Queue[T]) AvailableToWrite() uint64 { return q.ep.AvailableToWrite() }

// QuantumSize returns sizeof(T).
func (q *Queue[T]) QuantumSize() uint64 { return q.ep.QuantumSize() }

// QuantumCount returns the ring's capacity in records.
func (q *Queue[T]) QuantumCount() uint64 { return q.ep.QuantumCount() }

// Descriptor returns the bound descriptor, for rebroadcasting to a peer.
func (q *Queue[T]) Descriptor() descriptor.Descriptor { return q.ep.Descriptor() }

// Close unmaps the underlying endpoint's regions.
func (q *Queue[T]) Close() error { return q.ep.Close() }

// Write copies len(items) records into the ring. It returns false
// without side effect if the ring does not currently have room for all
// of them.
func (q *Queue[T]) Write(items []T) bool {
	if len(items) == 0 {
		return q.ep.Write(nil, 0)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&items[0])), len(items)*int(unsafe.Sizeof(items[0])))
	return q.ep.Write(data, len(items))
}

// Read fills items with len(items) records from the ring. It returns
// false without side effect if fewer than len(items) records are
// currently available.
func (q *Queue[T]) Read(items []T) bool {
	if len(items) == 0 {
		return q.ep.Read(nil, 0)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&items[0])), len(items)*int(unsafe.Sizeof(items[0])))
	return q.ep.Read(data, len(items))
}

// WriteOne writes a single record, the unit-count adapter for Write.
func (q *Queue[T]) WriteOne(item *T) bool {
	data := unsafe.Slice((*byte)(unsafe.Pointer(item)), unsafe.Sizeof(*item))
	return q.ep.Write(data, 1)
}

// ReadOne reads a single record, the unit-count adapter for Read.
func (q *Queue[T]) ReadOne(item *T) bool {
	data := unsafe.Slice((*byte)(unsafe.Pointer(item)), unsafe.Sizeof(*item))
	return q.ep.Read(data, 1)
}
