// Package config loads the YAML configuration of the bthome-beacon tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the beacon configuration file.
type Config struct {
	Device   DeviceConfig  `yaml:"device"`
	Interval time.Duration `yaml:"interval"`
	Readings []Reading     `yaml:"readings"`
	Radios   RadiosConfig  `yaml:"radios"`
	LogLevel string        `yaml:"log_level"`
}

// DeviceConfig describes the advertising device.
type DeviceConfig struct {
	ShortName    string            `yaml:"short_name"`
	CompleteName string            `yaml:"complete_name"`
	TriggerBased bool              `yaml:"trigger_based"`
	Encryption   *EncryptionConfig `yaml:"encryption"`
}

// EncryptionConfig holds the key material. Exactly one of BindKey and
// Passphrase is set.
type EncryptionConfig struct {
	BindKey    string `yaml:"bind_key"`   // 32 hex digits
	Passphrase string `yaml:"passphrase"` // bind key derived with the MAC as salt
	MAC        string `yaml:"mac"`        // 54:48:E6:8F:80:A5
	Counter    uint32 `yaml:"counter"`
}

// Reading is one measurement added to every advertisement. Exactly one of
// Type, State, Text and Raw is set.
type Reading struct {
	Type  string  `yaml:"type"`
	State string  `yaml:"state"`
	Text  string  `yaml:"text"`
	Raw   string  `yaml:"raw"` // hex
	Value float64 `yaml:"value"`
	Steps *uint8  `yaml:"steps"`
}

// RadiosConfig selects the transmitters. Absent sections are disabled.
type RadiosConfig struct {
	Bluetooth *BluetoothConfig `yaml:"bluetooth"`
	MQTT      *MQTTConfig      `yaml:"mqtt"`
	Datagram  *DatagramConfig  `yaml:"datagram"`
}

type BluetoothConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Adapter  string        `yaml:"adapter"`
	Interval time.Duration `yaml:"interval"`
	Duration time.Duration `yaml:"duration"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

type DatagramConfig struct {
	Address string `yaml:"address"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes, defaults and validates a configuration. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
