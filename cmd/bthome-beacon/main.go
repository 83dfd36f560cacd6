// bthome-beacon broadcasts configured sensor readings as BTHome v2
// advertisements.
//
// Usage:
//
//	bthome-beacon [options]
//
// Options:
//
//	-config  Path to the YAML configuration (default: bthome-beacon.yaml)
//	-once    Assemble and transmit a single advertisement, then exit
//
// Each interval the beacon rebuilds the measurement from the configured
// readings, assembles one advertisement and hands it to every enabled radio.
// Readings that do not fit are logged and skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/deeja/bthome/pkg/config"
	"github.com/deeja/bthome/pkg/radio"
	"github.com/pion/logging"
)

func main() {
	configPath := flag.String("config", "bthome-beacon.yaml", "Path to the YAML configuration")
	once := flag.Bool("once", false, "Transmit a single advertisement and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *once); err != nil {
		log.Fatalf("Beacon error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool) error {
	lf := logging.NewDefaultLoggerFactory()
	lf.DefaultLogLevel = cfg.Level()

	b, err := newBeacon(cfg, lf)
	if err != nil {
		return err
	}

	radios, err := openRadios(ctx, cfg.Radios, lf)
	if err != nil {
		return err
	}
	defer radios.Close()
	b.radio = radios

	if once {
		return b.tick(ctx)
	}
	return b.run(ctx, cfg.Interval)
}

func newBeacon(cfg *config.Config, lf logging.LoggerFactory) (*beacon, error) {
	dc, err := cfg.DeviceConfig(lf)
	if err != nil {
		return nil, err
	}

	b := &beacon{
		readings: cfg.Readings,
		log:      lf.NewLogger("beacon"),
	}
	b.device, err = bthome.NewDevice(dc)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	return b, nil
}

// openRadios opens every configured radio. On failure the radios already
// opened are closed.
func openRadios(ctx context.Context, rc config.RadiosConfig, lf logging.LoggerFactory) (radio.Multi, error) {
	var radios radio.Multi
	fail := func(err error) (radio.Multi, error) {
		radios.Close()
		return nil, err
	}

	if bt := rc.Bluetooth; bt != nil && bt.Enabled {
		r, err := radio.NewBluetooth(radio.BluetoothConfig{
			Adapter:       bt.Adapter,
			Interval:      bt.Interval,
			Duration:      bt.Duration,
			LoggerFactory: lf,
		})
		if err != nil {
			return fail(err)
		}
		radios = append(radios, r)
	}
	if m := rc.MQTT; m != nil {
		r, err := radio.NewMQTT(ctx, radio.MQTTConfig{
			Broker:        m.Broker,
			ClientID:      m.ClientID,
			Topic:         m.Topic,
			LoggerFactory: lf,
		})
		if err != nil {
			return fail(err)
		}
		radios = append(radios, r)
	}
	if d := rc.Datagram; d != nil {
		r, err := radio.NewDatagram(radio.DatagramConfig{
			Address:       d.Address,
			LoggerFactory: lf,
		})
		if err != nil {
			return fail(err)
		}
		radios = append(radios, r)
	}
	return radios, nil
}
