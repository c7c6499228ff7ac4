package queue

import "errors"

// ErrQuantumMismatch indicates the descriptor's quantum does not equal
// sizeof(T).
var ErrQuantumMismatch = errors.New("queue: descriptor quantum does not match record width")
