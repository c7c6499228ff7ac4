package ring

import "errors"

// Configuration errors: detected at construction, before any mapping is
// attempted. Per the construction state machine, a descriptor failing
// any of these checks never reaches the Region Mapper.
var (
	ErrInvalidHandle       = errors.New("ring: descriptor native handle is invalid")
	ErrTooFewGrantors      = errors.New("ring: descriptor has too few grantors")
	ErrCapacityNotMultiple = errors.New("ring: capacity is not a positive multiple of the quantum")
)
