package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/deeja/bthome/pkg/config"
	"github.com/pion/logging"
)

type recordRadio struct {
	frames []bthome.Advertisement
}

func (r *recordRadio) Transmit(_ context.Context, adv bthome.Advertisement) error {
	r.frames = append(r.frames, adv)
	return nil
}

func (r *recordRadio) Close() error { return nil }

func testLoggerFactory(buf *bytes.Buffer) logging.LoggerFactory {
	lf := logging.NewDefaultLoggerFactory()
	lf.Writer = buf
	lf.DefaultLogLevel = logging.LogLevelInfo
	return lf
}

func parseConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cfg
}

func TestBeaconTick(t *testing.T) {
	cfg := parseConfig(t, `
device: {short_name: T1, complete_name: TempSensor1}
readings:
  - {type: temperature, value: 23.5}
`)
	var logs bytes.Buffer
	b, err := newBeacon(cfg, testLoggerFactory(&logs))
	if err != nil {
		t.Fatalf("newBeacon() error = %v", err)
	}
	rec := &recordRadio{}
	b.radio = rec

	for i := 0; i < 2; i++ {
		if err := b.tick(context.Background()); err != nil {
			t.Fatalf("tick() error = %v", err)
		}
	}
	if len(rec.frames) != 2 {
		t.Fatalf("transmitted %d frames, want 2", len(rec.frames))
	}
	// Readings are re-added each tick, not accumulated.
	for i, adv := range rec.frames {
		if got := hex.EncodeToString(adv.ServiceData()); got != "16d2fc40022e09" {
			t.Errorf("frame %d service data = %s", i, got)
		}
	}
	if !strings.Contains(logs.String(), "advertisement 020106") {
		t.Errorf("frame not logged:\n%s", logs.String())
	}
}

func TestBeaconSkipsOverflowingReadings(t *testing.T) {
	cfg := parseConfig(t, `
device: {short_name: T1}
readings:
  - {raw: "00112233445566778899aabbccddeeff001122"}
  - {type: temperature, value: 20}
  - {type: battery, value: 99}
`)
	var logs bytes.Buffer
	b, err := newBeacon(cfg, testLoggerFactory(&logs))
	if err != nil {
		t.Fatalf("newBeacon() error = %v", err)
	}
	rec := &recordRadio{}
	b.radio = rec

	if err := b.tick(context.Background()); err != nil {
		t.Fatalf("tick() error = %v", err)
	}
	// 21 bytes of raw leave room for the battery but not the temperature.
	if got := b.device.Measurement().Count(); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
	if !strings.Contains(logs.String(), "temperature=20 skipped") {
		t.Errorf("skip not logged:\n%s", logs.String())
	}
}

func TestBeaconRunStopsOnExhaustion(t *testing.T) {
	cfg := parseConfig(t, `
device:
  encryption:
    bind_key: "231d39c1d7cc1ab1aee224cd096db932"
    mac: "54:48:E6:8F:80:A5"
    counter: 4294967295
`)
	b, err := newBeacon(cfg, testLoggerFactory(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("newBeacon() error = %v", err)
	}
	rec := &recordRadio{}
	b.radio = rec

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.run(ctx, time.Millisecond); !errors.Is(err, bthome.ErrCounterExhausted) {
		t.Errorf("run() error = %v, want ErrCounterExhausted", err)
	}
	if len(rec.frames) != 1 {
		t.Errorf("transmitted %d frames, want 1", len(rec.frames))
	}
}

func TestBeaconRunCanceled(t *testing.T) {
	cfg := parseConfig(t, "readings: [{type: battery, value: 50}]")
	b, err := newBeacon(cfg, testLoggerFactory(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("newBeacon() error = %v", err)
	}
	rec := &recordRadio{}
	b.radio = rec

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.run(ctx, time.Hour); err != nil {
		t.Errorf("run() error = %v", err)
	}
	if len(rec.frames) != 1 {
		t.Errorf("transmitted %d frames, want 1", len(rec.frames))
	}
}

func TestBeaconLogsNextCounterOnShutdown(t *testing.T) {
	cfg := parseConfig(t, `
device:
  encryption:
    passphrase: secret
    mac: "54:48:E6:8F:80:A5"
    counter: 41
`)
	var logs bytes.Buffer
	b, err := newBeacon(cfg, testLoggerFactory(&logs))
	if err != nil {
		t.Fatalf("newBeacon() error = %v", err)
	}
	b.radio = &recordRadio{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.run(ctx, time.Hour); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(logs.String(), "next counter 42") {
		t.Errorf("next counter not logged:\n%s", logs.String())
	}
}
