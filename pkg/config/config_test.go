package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/deeja/bthome/pkg/crypto"
	"github.com/pion/logging"
)

const fullConfig = `
device:
  short_name: T1
  complete_name: TempSensor1
  encryption:
    bind_key: "231d39c1d7cc1ab1aee224cd096db932"
    mac: "54:48:E6:8F:80:A5"
    counter: 7
interval: 2s
readings:
  - type: temperature
    value: 23.5
  - state: opening
    value: 1
  - state: dimmer
    value: 2
    steps: 3
  - text: Hi
  - raw: dead
radios:
  bluetooth: {enabled: true, adapter: hci0}
  mqtt: {broker: "tcp://localhost:1883"}
  datagram: {address: "127.0.0.1:5555"}
log_level: debug
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %v", cfg.Interval)
	}
	if cfg.Level() != logging.LogLevelDebug {
		t.Errorf("Level() = %v", cfg.Level())
	}
	if len(cfg.Readings) != 5 {
		t.Fatalf("Readings = %d, want 5", len(cfg.Readings))
	}
	if s := cfg.Readings[2].Steps; s == nil || *s != 3 {
		t.Errorf("Steps = %v", s)
	}

	bt := cfg.Radios.Bluetooth
	if bt == nil || !bt.Enabled || bt.Adapter != "hci0" {
		t.Fatalf("Bluetooth = %+v", bt)
	}
	if bt.Duration != time.Second || bt.Interval != 100*time.Millisecond {
		t.Errorf("Bluetooth defaults = %v %v", bt.Duration, bt.Interval)
	}
	m := cfg.Radios.MQTT
	if m.ClientID != "bthome-beacon" || m.Topic != "bthome/5448E68F80A5/advertisement" {
		t.Errorf("MQTT defaults = %+v", m)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("device: {short_name: K}\nradios: {mqtt: {broker: \"tcp://b:1883\"}}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Interval != DefaultInterval || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults = %v %q", cfg.Interval, cfg.LogLevel)
	}
	if cfg.Radios.MQTT.Topic != "bthome/K/advertisement" {
		t.Errorf("Topic = %q", cfg.Radios.MQTT.Topic)
	}
	if cfg.Radios.Bluetooth != nil || cfg.Radios.Datagram != nil {
		t.Error("absent radios should stay nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative interval", "interval: -1s"},
		{"unknown key", "device: {nick: x}"},
		{"log level", "log_level: loud"},
		{"unknown type", "readings: [{type: warp, value: 1}]"},
		{"unknown state", "readings: [{state: ajar, value: 1}]"},
		{"two kinds", "readings: [{type: temperature, state: opening}]"},
		{"no kind", "readings: [{value: 1}]"},
		{"state range", "readings: [{state: opening, value: 256}]"},
		{"state fraction", "readings: [{state: opening, value: 0.5}]"},
		{"steps on type", "readings: [{type: temperature, value: 1, steps: 2}]"},
		{"raw hex", "readings: [{raw: xyz}]"},
		{"key and passphrase", `device: {encryption: {bind_key: "231d39c1d7cc1ab1aee224cd096db932", passphrase: p, mac: "54:48:E6:8F:80:A5"}}`},
		{"no key", `device: {encryption: {mac: "54:48:E6:8F:80:A5"}}`},
		{"short key", `device: {encryption: {bind_key: "231d39", mac: "54:48:E6:8F:80:A5"}}`},
		{"bad key", `device: {encryption: {bind_key: "zz1d39c1d7cc1ab1aee224cd096db932", mac: "54:48:E6:8F:80:A5"}}`},
		{"bad mac", `device: {encryption: {bind_key: "231d39c1d7cc1ab1aee224cd096db932", mac: "54:48"}}`},
		{"eui64 mac", `device: {encryption: {passphrase: p, mac: "02:00:5e:10:00:00:00:01"}}`},
		{"mqtt broker", "radios: {mqtt: {client_id: x}}"},
		{"datagram address", "radios: {datagram: {}}"},
		{"bluetooth duration", "radios: {bluetooth: {duration: -1s}}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalid", tc.yaml, err)
			}
		})
	}
}

func TestDeviceConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dc, err := cfg.DeviceConfig(nil)
	if err != nil {
		t.Fatalf("DeviceConfig() error = %v", err)
	}
	if dc.ShortName != "T1" || dc.CompleteName != "TempSensor1" {
		t.Errorf("names = %q %q", dc.ShortName, dc.CompleteName)
	}
	enc := dc.Encryption
	if enc == nil {
		t.Fatal("Encryption = nil")
	}
	if got := hex.EncodeToString(enc.BindKey); got != "231d39c1d7cc1ab1aee224cd096db932" {
		t.Errorf("BindKey = %s", got)
	}
	if enc.MAC != [6]byte{0xA5, 0x80, 0x8F, 0xE6, 0x48, 0x54} {
		t.Errorf("MAC = % X, want transmission order", enc.MAC)
	}
	if enc.Counter != 7 {
		t.Errorf("Counter = %d", enc.Counter)
	}
}

func TestDeviceConfigPassphrase(t *testing.T) {
	cfg, err := Parse([]byte(`device: {encryption: {passphrase: "correct horse", mac: "54-48-E6-8F-80-A5"}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dc, err := cfg.DeviceConfig(nil)
	if err != nil {
		t.Fatalf("DeviceConfig() error = %v", err)
	}
	want, err := crypto.DeriveBindKey([]byte("correct horse"), dc.Encryption.MAC)
	if err != nil {
		t.Fatalf("DeriveBindKey() error = %v", err)
	}
	if !bytes.Equal(dc.Encryption.BindKey, want) || len(want) != crypto.KeySize {
		t.Errorf("BindKey = %x, want %x", dc.Encryption.BindKey, want)
	}
}

func TestReadingsAdd(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	cfg.Device.Encryption = nil
	dc, err := cfg.DeviceConfig(nil)
	if err != nil {
		t.Fatalf("DeviceConfig() error = %v", err)
	}
	d, err := bthome.NewDevice(dc)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	for _, r := range cfg.Readings {
		if err := r.Add(d); err != nil {
			t.Fatalf("Add(%v) error = %v", r, err)
		}
	}

	want := "022e09" + "1101" + "3c0203" + "53024869" + "5402dead"
	if got := hex.EncodeToString(d.Measurement().Bytes()); got != want {
		t.Errorf("measurement = %s, want %s", got, want)
	}
}

func TestReadingsAddWideIntegers(t *testing.T) {
	cfg, err := Parse([]byte(`
readings:
  - {type: count_uint32, value: 16777217}
  - {type: timestamp, value: 1700000001}
  - {type: count_sint32, value: -2}
  - {type: gas_uint32, value: 16777.217}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dc, err := cfg.DeviceConfig(nil)
	if err != nil {
		t.Fatalf("DeviceConfig() error = %v", err)
	}
	d, err := bthome.NewDevice(dc)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	for _, r := range cfg.Readings {
		if err := r.Add(d); err != nil {
			t.Fatalf("Add(%v) error = %v", r, err)
		}
	}

	want := "3e01000001" + "4c01000001" + "5001f15465" + "5bfeffffff"
	if got := hex.EncodeToString(d.Measurement().Bytes()); got != want {
		t.Errorf("measurement = %s, want %s", got, want)
	}
}

func TestReadingString(t *testing.T) {
	tests := []struct {
		r    Reading
		want string
	}{
		{Reading{Type: "temperature", Value: 23.5}, "temperature=23.5"},
		{Reading{State: "opening", Value: 1}, "opening=1"},
		{Reading{Text: "Hi"}, `text="Hi"`},
		{Reading{Raw: "dead"}, "raw=dead"},
	}
	for _, tc := range tests {
		if got := tc.r.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beacon.yaml")
	if err := os.WriteFile(path, []byte(fullConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
