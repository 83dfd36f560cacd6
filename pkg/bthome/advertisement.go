package bthome

import (
	"encoding/binary"

	"github.com/deeja/bthome/pkg/crypto"
)

// Advertisement is one assembled advertising payload.
type Advertisement struct {
	// Data is the raw advertising payload, at most 31 bytes.
	Data []byte

	// Encrypted reports whether the measurement was encrypted.
	Encrypted bool

	// Counter is the replay counter value consumed by this frame. Only
	// meaningful when Encrypted is set. Callers persisting the counter
	// should store Counter+1.
	Counter uint32

	// CompleteName and ShortName report which name fields were included.
	CompleteName bool
	ShortName    bool
}

// ServiceData returns the service data block (AD type, UUID, device
// information byte and payload) without the AD length byte.
func (a Advertisement) ServiceData() []byte {
	const offset = 3 + 1 // flags AD, service data length
	if len(a.Data) <= offset {
		return nil
	}
	n := int(a.Data[offset-1])
	if offset+n > len(a.Data) {
		return nil
	}
	return a.Data[offset : offset+n]
}

// indicator returns the device information byte.
func (d *Device) indicator() uint8 {
	b := FlagVersion
	if d.triggerBased {
		b |= FlagTriggerBased
	}
	if d.enc != nil {
		b |= FlagEncrypted
	}
	return b
}

// Advertisement assembles the advertising payload for the current
// measurement. The measurement is not reset.
//
// For encrypted devices every successful call consumes one counter value,
// whether or not the frame is ever transmitted. Once the counter is
// exhausted ErrCounterExhausted is returned and no frame is produced.
func (d *Device) Advertisement() (Advertisement, error) {
	adv := Advertisement{Encrypted: d.enc != nil}
	indicator := d.indicator()
	measurement := d.measurement.Bytes()

	payload := measurement
	if d.enc != nil {
		counter, ok := d.enc.counter.Peek()
		if !ok {
			if d.log != nil {
				d.log.Warn("refusing to encrypt: counter exhausted")
			}
			return Advertisement{}, ErrCounterExhausted
		}
		nonce := crypto.BuildNonce(d.enc.mac, ServiceUUID, indicator, counter)
		ciphertext, mic, err := d.enc.ccm.SealDetached(nonce, measurement, nil)
		if err != nil {
			return Advertisement{}, err
		}
		// Consumed even if the frame is never transmitted.
		if _, err := d.enc.counter.Next(); err != nil {
			return Advertisement{}, err
		}
		payload = make([]byte, 0, len(ciphertext)+EncryptionOverhead)
		payload = append(payload, ciphertext...)
		payload = binary.LittleEndian.AppendUint32(payload, counter)
		payload = append(payload, mic...)
		adv.Counter = counter
	}

	serviceData := make([]byte, 0, 4+len(payload))
	serviceData = append(serviceData, adServiceData)
	serviceData = binary.LittleEndian.AppendUint16(serviceData, ServiceUUID)
	serviceData = append(serviceData, indicator)
	serviceData = append(serviceData, payload...)

	frame := make([]byte, 0, MaxAdvertisementSize)
	frame = append(frame, 2, adFlags, flagsValue)
	frame = append(frame, uint8(len(serviceData)))
	frame = append(frame, serviceData...)
	if len(frame) > MaxAdvertisementSize {
		return Advertisement{}, ErrFrameTooLong
	}

	frame, adv.CompleteName = appendName(frame, adCompleteName, d.completeName)
	frame, adv.ShortName = appendName(frame, adShortName, d.shortName)
	if d.log != nil {
		if !adv.CompleteName {
			d.log.Debugf("complete name %q omitted, %d bytes used", d.completeName, len(frame))
		}
		d.log.Tracef("advertisement % X", frame)
	}

	adv.Data = frame
	return adv, nil
}

// appendName appends a name AD structure if it fits in the advertisement.
func appendName(frame []byte, adType uint8, name string) ([]byte, bool) {
	if name == "" || len(frame)+len(name)+typeIndicatorSize+currentByte > MaxAdvertisementSize {
		return frame, false
	}
	frame = append(frame, uint8(len(name)+typeIndicatorSize), adType)
	return append(frame, name...), true
}
