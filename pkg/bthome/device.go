package bthome

import (
	"math"
	"unicode/utf8"

	"github.com/deeja/bthome/pkg/crypto"
	"github.com/deeja/bthome/pkg/sensor"
	"github.com/pion/logging"
)

// DeviceConfig configures a Device.
type DeviceConfig struct {
	// ShortName is advertised when space is limited. Truncated to 12 bytes.
	ShortName string

	// CompleteName is advertised when it fits. Truncated to 20 bytes.
	CompleteName string

	// TriggerBased sets the trigger flag for devices that only advertise
	// on events rather than at a regular interval.
	TriggerBased bool

	// Encryption enables encrypted advertisements. If nil, frames are sent
	// in plain text.
	Encryption *EncryptionConfig

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// EncryptionConfig holds the key material for encrypted advertisements.
type EncryptionConfig struct {
	// BindKey is the 16-byte AES key shared with receivers.
	BindKey []byte

	// MAC is the device address in transmission order (least significant
	// byte first).
	MAC [crypto.MACSize]byte

	// Counter is the first replay counter value to use. Callers that
	// persist the counter across restarts restore it here.
	Counter uint32
}

type encryption struct {
	ccm     *crypto.AESCCM
	mac     [crypto.MACSize]byte
	counter *Counter
}

// Device encodes measurements of one sensor device into BTHome
// advertisements.
//
// A Device is not safe for concurrent use. Callers adding measurements and
// assembling advertisements from several goroutines must serialise access.
type Device struct {
	shortName    string
	completeName string
	triggerBased bool

	measurement Measurement
	enc         *encryption

	log logging.LeveledLogger
}

// NewDevice creates a device with an empty measurement.
func NewDevice(config DeviceConfig) (*Device, error) {
	d := &Device{
		shortName:    truncate(config.ShortName, MaxShortNameLength),
		completeName: truncate(config.CompleteName, MaxCompleteNameLength),
		triggerBased: config.TriggerBased,
	}
	if config.LoggerFactory != nil {
		d.log = config.LoggerFactory.NewLogger("bthome")
	}

	reserved := 0
	if enc := config.Encryption; enc != nil {
		if len(enc.BindKey) != crypto.KeySize {
			return nil, ErrInvalidBindKey
		}
		ccm, err := crypto.NewAESCCM(enc.BindKey)
		if err != nil {
			return nil, err
		}
		d.enc = &encryption{
			ccm:     ccm,
			mac:     enc.MAC,
			counter: NewCounter(enc.Counter),
		}
		reserved = EncryptionOverhead
	}
	d.measurement = newMeasurement(reserved)

	if d.log != nil {
		d.log.Debugf("device %q created, encrypted=%t trigger=%t", d.completeName, d.enc != nil, d.triggerBased)
	}
	return d, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ShortName returns the short device name.
func (d *Device) ShortName() string { return d.shortName }

// CompleteName returns the complete device name.
func (d *Device) CompleteName() string { return d.completeName }

// TriggerBased reports whether the trigger flag is advertised.
func (d *Device) TriggerBased() bool { return d.triggerBased }

// Encrypted reports whether advertisements are encrypted.
func (d *Device) Encrypted() bool { return d.enc != nil }

// Counter returns the replay counter value the next encrypted advertisement
// will use. ok is false for unencrypted devices and once the counter is
// exhausted.
func (d *Device) Counter() (value uint32, ok bool) {
	if d.enc == nil {
		return 0, false
	}
	return d.enc.counter.Peek()
}

// Measurement returns the device's measurement buffer.
func (d *Device) Measurement() *Measurement { return &d.measurement }

// ResetMeasurement removes every entry added since the last reset.
func (d *Device) ResetMeasurement() {
	d.measurement.Reset()
}

// AddState adds a binary sensor or event. With steps, the value is sent as
// a 16-bit word with the state in the low byte and the steps in the high
// byte.
func (d *Device) AddState(s sensor.State, state uint8, steps Steps) error {
	if err := checkWidth(s.Width); err != nil {
		return err
	}
	var buf [9]byte
	return d.add(encode(buf[:0], s.ID, stateValue(state, steps), s.Width))
}

// AddUnsignedInteger adds an unsigned value. The value is divided by the
// type's scale, rounded, and truncated to the type's width.
func (d *Device) AddUnsignedInteger(t sensor.Type, value uint64) error {
	raw := value
	if t.Scale != 0 {
		v, err := scaled(float64(value), t.Scale)
		if err != nil {
			return err
		}
		raw = toRaw(v)
	}
	return d.addNumber(t, raw)
}

// AddSignedInteger adds a signed value. The value is divided by the type's
// scale, rounded, and truncated to the type's width in two's complement.
func (d *Device) AddSignedInteger(t sensor.Type, value int64) error {
	raw := uint64(value)
	if t.Scale != 0 {
		v, err := scaled(float64(value), t.Scale)
		if err != nil {
			return err
		}
		raw = toRaw(v)
	}
	return d.addNumber(t, raw)
}

// AddFloat adds a physical value. The value is divided by the type's
// scale and rounded to the nearest integer before packing.
func (d *Device) AddFloat(t sensor.Type, value float32) error {
	return d.AddFloat64(t, float64(value))
}

// AddFloat64 is AddFloat without the float32 mantissa limit. Raw values
// above 2^24 survive unchanged.
func (d *Device) AddFloat64(t sensor.Type, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidValue
	}
	v, err := scaled(value, t.Scale)
	if err != nil {
		return err
	}
	return d.addNumber(t, toRaw(v))
}

func (d *Device) addNumber(t sensor.Type, raw uint64) error {
	if err := checkWidth(t.Width); err != nil {
		return err
	}
	var buf [9]byte
	return d.add(encode(buf[:0], t.ID, raw, t.Width))
}

// AddRaw adds a length-prefixed object: id, len(data), data.
func (d *Device) AddRaw(id uint8, data []byte) error {
	if len(data) > math.MaxUint8 {
		return ErrRawTooLong
	}
	if len(data)+rawHeaderSize > d.measurement.Remaining() {
		return d.reject(id, len(data)+rawHeaderSize)
	}
	entry := make([]byte, 0, len(data)+rawHeaderSize)
	entry = append(entry, id, uint8(len(data)))
	entry = append(entry, data...)
	return d.add(entry)
}

// AddText adds a UTF-8 text object.
func (d *Device) AddText(id uint8, text string) error {
	return d.AddRaw(id, []byte(text))
}

func (d *Device) add(entry []byte) error {
	if err := d.measurement.push(entry); err != nil {
		return d.reject(entry[0], len(entry))
	}
	return nil
}

func (d *Device) reject(id uint8, size int) error {
	if d.log != nil {
		d.log.Debugf("object 0x%02X (%d bytes) rejected, %d bytes remaining", id, size, d.measurement.Remaining())
	}
	return ErrCapacityExceeded
}
