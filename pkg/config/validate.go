package config

import (
	"encoding/hex"
	"fmt"
	"math"
	"net"

	"github.com/deeja/bthome/pkg/crypto"
	"github.com/deeja/bthome/pkg/sensor"
	"github.com/pion/logging"
)

var logLevels = map[string]logging.LogLevel{
	"disabled": logging.LogLevelDisabled,
	"error":    logging.LogLevelError,
	"warn":     logging.LogLevelWarn,
	"info":     logging.LogLevelInfo,
	"debug":    logging.LogLevelDebug,
	"trace":    logging.LogLevelTrace,
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate checks the configuration. It does not modify it.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return invalid("interval must be positive, got %v", c.Interval)
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return invalid("unknown log_level %q", c.LogLevel)
	}
	if enc := c.Device.Encryption; enc != nil {
		if err := enc.validate(); err != nil {
			return err
		}
	}
	for i, r := range c.Readings {
		if err := r.validate(); err != nil {
			return fmt.Errorf("readings[%d]: %w", i, err)
		}
	}
	return c.Radios.validate()
}

// Level returns the configured log level.
func (c *Config) Level() logging.LogLevel {
	if l, ok := logLevels[c.LogLevel]; ok {
		return l
	}
	return logging.LogLevelInfo
}

func (e *EncryptionConfig) validate() error {
	switch {
	case e.BindKey != "" && e.Passphrase != "":
		return invalid("encryption: bind_key and passphrase are exclusive")
	case e.BindKey == "" && e.Passphrase == "":
		return invalid("encryption: bind_key or passphrase required")
	case e.BindKey != "":
		key, err := hex.DecodeString(e.BindKey)
		if err != nil || len(key) != crypto.KeySize {
			return invalid("encryption: bind_key must be %d hex digits", 2*crypto.KeySize)
		}
	}
	if _, err := parseMAC(e.MAC); err != nil {
		return err
	}
	return nil
}

// parseMAC parses a colon or dash separated EUI-48 and returns it in
// transmission order (least significant byte first).
func parseMAC(s string) ([crypto.MACSize]byte, error) {
	var out [crypto.MACSize]byte
	mac, err := net.ParseMAC(s)
	if err != nil || len(mac) != crypto.MACSize {
		return out, invalid("encryption: mac %q is not an EUI-48 address", s)
	}
	for i := range out {
		out[i] = mac[crypto.MACSize-1-i]
	}
	return out, nil
}

func (r Reading) validate() error {
	set := 0
	for _, s := range []string{r.Type, r.State, r.Text, r.Raw} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return invalid("exactly one of type, state, text and raw required")
	}
	if r.Steps != nil && r.State == "" {
		return invalid("steps only apply to states")
	}

	switch {
	case r.Type != "":
		if _, ok := sensor.LookupType(r.Type); !ok {
			return invalid("unknown sensor type %q", r.Type)
		}
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return invalid("value of %q is not finite", r.Type)
		}
	case r.State != "":
		if _, ok := sensor.LookupState(r.State); !ok {
			return invalid("unknown state %q", r.State)
		}
		if r.Value < 0 || r.Value > math.MaxUint8 || r.Value != math.Trunc(r.Value) {
			return invalid("state %q value must be an integer in 0..255", r.State)
		}
	case r.Raw != "":
		if _, err := hex.DecodeString(r.Raw); err != nil {
			return invalid("raw is not hex: %v", err)
		}
	}
	return nil
}

func (r RadiosConfig) validate() error {
	if m := r.MQTT; m != nil && m.Broker == "" {
		return invalid("radios.mqtt: broker required")
	}
	if d := r.Datagram; d != nil && d.Address == "" {
		return invalid("radios.datagram: address required")
	}
	if bt := r.Bluetooth; bt != nil && (bt.Interval < 0 || bt.Duration < 0) {
		return invalid("radios.bluetooth: negative interval or duration")
	}
	return nil
}
