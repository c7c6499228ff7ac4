package wait

import "errors"

// ErrFutexTimeout is returned by futexWaitTimeout when the wait times
// out before the value at addr changes.
var ErrFutexTimeout = errors.New("wait: futex wait timed out")

// ErrFutexUnsupported indicates futex operations are not available on
// this platform; waiters fall back to polling.
var ErrFutexUnsupported = errors.New("wait: futex operations not supported on this platform")
