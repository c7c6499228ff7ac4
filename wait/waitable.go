package wait

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shmring/fastmq/descriptor"
	"github.com/shmring/fastmq/ring"
	"github.com/shmring/fastmq/shmregion"
)

// Extra grantor positions this package requires beyond the core's
// minimum of three. A descriptor used with New must carry at least
// ExtendedGrantorCount grantors.
const (
	DataSeqPos           = 3
	SpaceSeqPos          = 4
	ExtendedGrantorCount = 5
)

// ErrNoEventRegions indicates the descriptor does not carry the two
// extra grantors this package needs for its sequence counters.
var ErrNoEventRegions = errors.New("wait: descriptor has no event-flag grantors")

// Waitable adds futex-based wake/sleep around an already-bound
// ring.Endpoint. The endpoint's Write/Read remain the only mutators of
// the read/write counters; Waitable only bumps and waits on its own
// sequence words.
type Waitable struct {
	ep *ring.Endpoint

	dataRegion  shmregion.Region
	spaceRegion shmregion.Region

	dataSeq  *uint32 // bumped by the writer after every successful write
	spaceSeq *uint32 // bumped by the reader after every successful read
}

// New wraps ep, bound to d, with the event-flag regions named at
// DataSeqPos and SpaceSeqPos in d's grantor table.
func New(ep *ring.Endpoint, d descriptor.Descriptor) (*Waitable, error) {
	grantors := d.Grantors()
	if len(grantors) < ExtendedGrantorCount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNoEventRegions, len(grantors), ExtendedGrantorCount)
	}
	handle := d.NativeHandle()

	dataRegion, err := shmregion.Map(handle, grantors[DataSeqPos])
	if err != nil {
		return nil, fmt.Errorf("map data sequence: %w", err)
	}
	spaceRegion, err := shmregion.Map(handle, grantors[SpaceSeqPos])
	if err != nil {
		shmregion.Unmap(dataRegion)
		return nil, fmt.Errorf("map space sequence: %w", err)
	}

	return &Waitable{
		ep:          ep,
		dataRegion:  dataRegion,
		spaceRegion: spaceRegion,
		dataSeq:     (*uint32)(dataRegion.Pointer()),
		spaceSeq:    (*uint32)(spaceRegion.Pointer()),
	}, nil
}

// Close unmaps the event-flag regions. It does not close the wrapped
// Endpoint; callers that own both must close each.
func (wk *Waitable) Close() error {
	var firstErr error
	if err := shmregion.Unmap(wk.dataRegion); err != nil {
		firstErr = err
	}
	if err := shmregion.Unmap(wk.spaceRegion); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// WriteBlocking writes count records, blocking until there is room, the
// context is done, or the context's deadline elapses.
func (wk *Waitable) WriteBlocking(ctx context.Context, data []byte, count int) error {
	for {
		if wk.ep.Write(data, count) {
			atomic.AddUint32(wk.dataSeq, 1)
			futexWake(wk.dataSeq, 1)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		spaceSeq := atomic.LoadUint32(wk.spaceSeq)
		if err := wk.waitWithDeadline(ctx, wk.spaceSeq, spaceSeq); err != nil {
			return err
		}
	}
}

// ReadBlocking reads count records, blocking until data is available,
// the context is done, or the context's deadline elapses.
func (wk *Waitable) ReadBlocking(ctx context.Context, dst []byte, count int) error {
	for {
		if wk.ep.Read(dst, count) {
			atomic.AddUint32(wk.spaceSeq, 1)
			futexWake(wk.spaceSeq, 1)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dataSeq := atomic.LoadUint32(wk.dataSeq)
		if err := wk.waitWithDeadline(ctx, wk.dataSeq, dataSeq); err != nil {
			return err
		}
	}
}

func (wk *Waitable) waitWithDeadline(ctx context.Context, addr *uint32, val uint32) error {
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		err := futexWaitTimeout(addr, val, remaining.Nanoseconds())
		if errors.Is(err, ErrFutexTimeout) {
			return context.DeadlineExceeded
		}
		return err
	}
	// Without a deadline, wake periodically so the caller's loop notices
	// a cancelled context.
	err := futexWaitTimeout(addr, val, int64(10*time.Millisecond))
	if errors.Is(err, ErrFutexTimeout) {
		return nil
	}
	return err
}
