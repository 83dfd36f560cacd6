package config

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/deeja/bthome/pkg/bthome"
	"github.com/deeja/bthome/pkg/crypto"
	"github.com/deeja/bthome/pkg/sensor"
	"github.com/pion/logging"
)

// DeviceConfig converts the device section. The config must be valid.
func (c *Config) DeviceConfig(loggerFactory logging.LoggerFactory) (bthome.DeviceConfig, error) {
	dc := bthome.DeviceConfig{
		ShortName:     c.Device.ShortName,
		CompleteName:  c.Device.CompleteName,
		TriggerBased:  c.Device.TriggerBased,
		LoggerFactory: loggerFactory,
	}
	enc := c.Device.Encryption
	if enc == nil {
		return dc, nil
	}

	mac, err := parseMAC(enc.MAC)
	if err != nil {
		return dc, err
	}
	var key []byte
	if enc.BindKey != "" {
		key, err = hex.DecodeString(enc.BindKey)
	} else {
		key, err = crypto.DeriveBindKey([]byte(enc.Passphrase), mac)
	}
	if err != nil {
		return dc, fmt.Errorf("bind key: %w", err)
	}

	dc.Encryption = &bthome.EncryptionConfig{
		BindKey: key,
		MAC:     mac,
		Counter: enc.Counter,
	}
	return dc, nil
}

// Add adds the reading to d.
func (r Reading) Add(d *bthome.Device) error {
	switch {
	case r.Type != "":
		t, ok := sensor.LookupType(r.Type)
		if !ok {
			return invalid("unknown sensor type %q", r.Type)
		}
		return addNumber(d, t, r.Value)
	case r.State != "":
		s, ok := sensor.LookupState(r.State)
		if !ok {
			return invalid("unknown state %q", r.State)
		}
		steps := bthome.NoSteps
		if r.Steps != nil {
			steps = bthome.WithSteps(*r.Steps)
		}
		return d.AddState(s, uint8(r.Value), steps)
	case r.Text != "":
		return d.AddText(sensor.TextID, r.Text)
	default:
		data, err := hex.DecodeString(r.Raw)
		if err != nil {
			return invalid("raw is not hex: %v", err)
		}
		return d.AddRaw(sensor.RawID, data)
	}
}

// addNumber sends unscaled whole values through the integer adders so wide
// objects such as timestamp keep every bit.
func addNumber(d *bthome.Device, t sensor.Type, v float64) error {
	if t.Scale != 0 || v != math.Trunc(v) || v < math.MinInt64 || v >= 1<<63 {
		return d.AddFloat64(t, v)
	}
	if t.Signed || v < 0 {
		return d.AddSignedInteger(t, int64(v))
	}
	return d.AddUnsignedInteger(t, uint64(v))
}

// String names the reading for log messages.
func (r Reading) String() string {
	switch {
	case r.Type != "":
		return fmt.Sprintf("%s=%g", r.Type, r.Value)
	case r.State != "":
		return fmt.Sprintf("%s=%g", r.State, r.Value)
	case r.Text != "":
		return fmt.Sprintf("text=%q", r.Text)
	default:
		return "raw=" + r.Raw
	}
}
