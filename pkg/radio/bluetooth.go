package radio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/pion/logging"
	"tinygo.org/x/bluetooth"
)

// Bluetooth defaults.
const (
	DefaultAdvertisingInterval = 100 * time.Millisecond
	DefaultAdvertisingDuration = time.Second
)

// BluetoothConfig configures a Bluetooth radio.
type BluetoothConfig struct {
	// Adapter names the host controller (for example "hci0"). Empty selects
	// the default adapter.
	Adapter string

	// Interval is the advertising interval.
	// Default: 100ms
	Interval time.Duration

	// Duration is how long each advertisement stays on air.
	// Default: 1s
	Duration time.Duration

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// advertiser is the part of *bluetooth.Advertisement used here.
type advertiser interface {
	Configure(options bluetooth.AdvertisementOptions) error
	Start() error
	Stop() error
}

// Bluetooth broadcasts advertisements as non-connectable legacy
// advertisements on a local BLE adapter.
//
// The host stack rebuilds the AD structures from the service data and a
// single local name (the complete name when present, else the short name),
// so the frame on air is not byte-identical to Advertisement.Data.
type Bluetooth struct {
	adv      advertiser
	interval time.Duration
	duration time.Duration
	log      logging.LeveledLogger

	mu     sync.Mutex
	closed bool
}

// NewBluetooth enables the configured adapter.
func NewBluetooth(config BluetoothConfig) (*Bluetooth, error) {
	adapter := newAdapter(config.Adapter)
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable bluetooth adapter: %w", err)
	}
	return newBluetooth(adapter.DefaultAdvertisement(), config), nil
}

func newBluetooth(adv advertiser, config BluetoothConfig) *Bluetooth {
	b := &Bluetooth{
		adv:      adv,
		interval: config.Interval,
		duration: config.Duration,
	}
	if b.interval == 0 {
		b.interval = DefaultAdvertisingInterval
	}
	if b.duration == 0 {
		b.duration = DefaultAdvertisingDuration
	}
	if config.LoggerFactory != nil {
		b.log = config.LoggerFactory.NewLogger("radio")
	}
	return b
}

// Transmit advertises adv for the configured duration.
func (b *Bluetooth) Transmit(ctx context.Context, adv bthome.Advertisement) error {
	f, err := parseFrame(adv.Data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	err = b.adv.Configure(bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeNonConnInd,
		LocalName:         f.name,
		Interval:          bluetooth.NewDuration(b.interval),
		ServiceData: []bluetooth.ServiceDataElement{
			{UUID: bluetooth.New16BitUUID(f.uuid), Data: f.serviceData},
		},
	})
	if err != nil {
		return fmt.Errorf("configure advertisement: %w", err)
	}
	if err := b.adv.Start(); err != nil {
		return fmt.Errorf("start advertisement: %w", err)
	}
	if b.log != nil {
		b.log.Debugf("advertising %d bytes for %v", len(adv.Data), b.duration)
	}

	timer := time.NewTimer(b.duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if stopErr := b.adv.Stop(); stopErr != nil && err == nil {
		err = fmt.Errorf("stop advertisement: %w", stopErr)
	}
	return err
}

// Close prevents further transmissions.
func (b *Bluetooth) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
