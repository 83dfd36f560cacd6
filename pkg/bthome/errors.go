package bthome

import "errors"

var (
	// ErrCapacityExceeded is returned when an entry does not fit in the
	// remaining measurement budget. The measurement is left unchanged.
	ErrCapacityExceeded = errors.New("bthome: measurement capacity exceeded")

	// ErrCounterExhausted is returned once every 32-bit counter value has
	// been used; the device cannot produce further encrypted frames.
	ErrCounterExhausted = errors.New("bthome: encryption counter exhausted")

	ErrInvalidBindKey = errors.New("bthome: invalid bind key, must be 16 bytes")
	ErrInvalidScale   = errors.New("bthome: invalid scale, must be positive")
	ErrInvalidValue   = errors.New("bthome: value is NaN or infinite")
	ErrInvalidWidth   = errors.New("bthome: invalid width, must be 1 to 8 bytes")
	ErrRawTooLong     = errors.New("bthome: raw value longer than 255 bytes")
	ErrFrameTooLong   = errors.New("bthome: advertisement exceeds 31 bytes")
)
