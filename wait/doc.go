// Package wait layers optional, non-core blocking semantics on top of
// package ring's non-blocking Endpoint. The core deliberately exposes
// only non-blocking predicates and capacity queries; cross-process
// signaling is named in the core's design notes as a future extension
// that should not need to change the ring protocol, and this package is
// that extension.
//
// Waitable needs two additional shared-memory words beyond the three
// core grantors — a data-ready sequence and a space-ready sequence — so
// a descriptor used with this package must carry five grantors instead
// of the core's minimum of three, with the two extra ones at
// DataSeqPos and SpaceSeqPos. Waitable never touches the read or write
// counters directly; it only wakes a sleeper after the core's own
// Write/Read has already committed.
package wait
