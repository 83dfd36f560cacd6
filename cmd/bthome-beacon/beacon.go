package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/deeja/bthome/pkg/config"
	"github.com/deeja/bthome/pkg/radio"
	"github.com/pion/logging"
)

type beacon struct {
	device   *bthome.Device
	readings []config.Reading
	radio    radio.Radio
	log      logging.LeveledLogger
}

// run ticks immediately and then every interval until ctx is done.
func (b *beacon) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := b.tick(ctx); err != nil {
			if errors.Is(err, bthome.ErrCounterExhausted) {
				return err
			}
			b.log.Errorf("advertisement failed: %v", err)
		}

		select {
		case <-ctx.Done():
			if next, ok := b.device.Counter(); ok {
				b.log.Infof("shutting down, next counter %d", next)
			} else {
				b.log.Info("shutting down")
			}
			return nil
		case <-ticker.C:
		}
	}
}

// tick assembles and transmits one advertisement.
func (b *beacon) tick(ctx context.Context) error {
	b.device.ResetMeasurement()
	for _, r := range b.readings {
		if err := r.Add(b.device); err != nil {
			if !errors.Is(err, bthome.ErrCapacityExceeded) {
				return fmt.Errorf("reading %v: %w", r, err)
			}
			b.log.Warnf("reading %v skipped: %v", r, err)
		}
	}

	adv, err := b.device.Advertisement()
	if err != nil {
		return err
	}
	b.log.Infof("advertisement %X", adv.Data)

	if b.radio == nil {
		return nil
	}
	return b.radio.Transmit(ctx, adv)
}
