// Package radio hands assembled BTHome advertisements to a transmitter.
//
// Bluetooth drives a local BLE adapter. MQTT and Datagram relay the raw
// frames to gateways that own the radio.
package radio

import (
	"context"
	"errors"

	"github.com/deeja/bthome/pkg/bthome"
)

// Radio errors.
var (
	// ErrMalformedAD is returned when a frame is not a valid sequence of AD
	// structures.
	ErrMalformedAD = errors.New("radio: malformed advertising data")

	// ErrClosed is returned by Transmit after Close.
	ErrClosed = errors.New("radio: closed")

	// ErrNoServiceData is returned when a frame carries no BTHome service
	// data.
	ErrNoServiceData = errors.New("radio: no service data in frame")
)

// Radio transmits advertisements.
type Radio interface {
	// Transmit sends one advertisement. It blocks until the frame has been
	// handed off or ctx is done.
	Transmit(ctx context.Context, adv bthome.Advertisement) error

	// Close releases the transmitter.
	Close() error
}

// Multi transmits every advertisement on each of its radios.
type Multi []Radio

// Transmit sends adv on every radio, continuing past failures.
func (m Multi) Transmit(ctx context.Context, adv bthome.Advertisement) error {
	var errs []error
	for _, r := range m {
		if err := r.Transmit(ctx, adv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every radio.
func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
