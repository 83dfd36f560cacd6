// Package bthome encodes sensor measurements into BTHome v2 BLE
// advertisements.
//
// A Device accumulates measurement entries, each an object id followed by
// its little-endian value, into a buffer bounded by the 31-byte legacy
// advertising payload. Advertisement lays out the flags, the service data
// block (optionally AES-CCM encrypted) and as many name fields as still fit.
//
// # Plain advertisements
//
//	dev, err := bthome.NewDevice(bthome.DeviceConfig{
//	    ShortName:    "T1",
//	    CompleteName: "TempSensor1",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dev.AddFloat(sensor.Temperature, 23.5)
//	dev.AddFloat(sensor.Humidity, 48.2)
//	adv, err := dev.Advertisement()
//	dev.ResetMeasurement()
//
// # Encrypted advertisements
//
// Setting DeviceConfig.Encryption encrypts the measurement with the bind
// key. The nonce combines the device MAC, the BTHome UUID, the device
// information byte and a 32-bit counter. Each Advertisement call consumes a
// counter value; the counter is never reused and, once exhausted, no
// further encrypted advertisements are produced. Persisting the counter
// across restarts is up to the caller (see Advertisement.Counter).
//
// # Capacity
//
// Add calls fail with ErrCapacityExceeded, leaving the measurement
// unchanged, when the entry does not fit. Encrypted devices have 8 bytes
// less room for entries. Names never cause an error: the complete name is
// included if it fits, then the short name under the same rule.
package bthome
