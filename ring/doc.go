// Package ring implements a single-producer/single-reader lock-free
// byte ring buffer mapped over shared memory. One endpoint writes
// fixed-size records and a peer endpoint, bound to the same descriptor
// from a different process, reads them back in FIFO order without
// entering the kernel on the fast path.
//
// Construction binds an Endpoint to a descriptor.Descriptor: the three
// core grantors (read pointer, write pointer, data ring) are mapped via
// shmregion, and both counters are zeroed. Binding a second endpoint to
// an already-active queue therefore resets the stream; peer-based
// initialisation handshakes that avoid this are outside this package.
package ring
