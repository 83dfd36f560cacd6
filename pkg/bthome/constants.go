package bthome

// Frame geometry.
const (
	// MaxAdvertisementSize is the legacy BLE advertising payload limit.
	MaxAdvertisementSize = 31

	// HeaderSize is the budget reserved for flags, service data header and
	// the device information byte.
	HeaderSize = 9

	// MaxMeasurementSize is the measurement budget before the in-progress
	// slot and encryption overhead are applied.
	MaxMeasurementSize = MaxAdvertisementSize - HeaderSize

	// EncryptionOverhead is the counter (4) plus MIC (4) appended to
	// encrypted payloads.
	EncryptionOverhead = counterSize + micSize

	// MaxShortNameLength and MaxCompleteNameLength bound the device names.
	MaxShortNameLength    = 12
	MaxCompleteNameLength = 20

	typeIndicatorSize = 1
	rawHeaderSize     = 2
	currentByte       = 1
	counterSize       = 4
	micSize           = 4
)

// ServiceUUID is the 16-bit BTHome service UUID (0xFCD2).
const ServiceUUID uint16 = 0xFCD2

// AD structure types.
const (
	adFlags        uint8 = 0x01
	adShortName    uint8 = 0x08
	adCompleteName uint8 = 0x09
	adServiceData  uint8 = 0x16
)

// Flags AD payload: LE General Discoverable, BR/EDR not supported.
const flagsValue uint8 = 0x06

// Device information byte.
const (
	FlagEncrypted    uint8 = 0x01
	FlagTriggerBased uint8 = 0x04
	FlagVersion      uint8 = 0x40 // BTHome version 2
)
