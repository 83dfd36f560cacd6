package config

import (
	"net"
	"strings"
	"time"

	"github.com/deeja/bthome/pkg/radio"
)

// Defaults.
const (
	DefaultInterval = 10 * time.Second
	DefaultLogLevel = "info"
)

// ApplyDefaults fills unset optional fields. It runs before Validate and
// leaves invalid values for Validate to report.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if bt := c.Radios.Bluetooth; bt != nil {
		if bt.Interval == 0 {
			bt.Interval = radio.DefaultAdvertisingInterval
		}
		if bt.Duration == 0 {
			bt.Duration = radio.DefaultAdvertisingDuration
		}
	}

	if m := c.Radios.MQTT; m != nil {
		if m.ClientID == "" {
			m.ClientID = radio.DefaultMQTTClientID
		}
		if m.Topic == "" {
			m.Topic = radio.Topic(c.deviceID(m.ClientID))
		}
	}
}

// deviceID names the device in relay topics: its MAC without separators,
// else its short name, else fallback.
func (c *Config) deviceID(fallback string) string {
	if enc := c.Device.Encryption; enc != nil {
		if mac, err := net.ParseMAC(enc.MAC); err == nil {
			return strings.ToUpper(strings.ReplaceAll(mac.String(), ":", ""))
		}
	}
	if c.Device.ShortName != "" {
		return c.Device.ShortName
	}
	return fallback
}
