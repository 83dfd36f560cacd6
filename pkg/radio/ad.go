package radio

import (
	"encoding/binary"
	"fmt"
)

// AD types found in BTHome frames.
const (
	ADFlags         uint8 = 0x01
	ADShortName     uint8 = 0x08
	ADCompleteName  uint8 = 0x09
	ADServiceData16 uint8 = 0x16
)

// ADStructure is one length-prefixed field of an advertising payload.
type ADStructure struct {
	Type uint8
	Data []byte
}

// SplitAD splits an advertising payload into its AD structures. Data
// slices alias frame.
func SplitAD(frame []byte) ([]ADStructure, error) {
	var out []ADStructure
	for i := 0; i < len(frame); {
		n := int(frame[i])
		if n == 0 {
			// Zero length terminates significant data.
			break
		}
		if i+1+n > len(frame) {
			return nil, fmt.Errorf("%w: structure at offset %d overruns frame", ErrMalformedAD, i)
		}
		out = append(out, ADStructure{Type: frame[i+1], Data: frame[i+2 : i+1+n]})
		i += 1 + n
	}
	return out, nil
}

// fields is the structured form of a frame, as taken by GAP APIs.
type fields struct {
	name        string
	uuid        uint16
	serviceData []byte
}

// parseFrame extracts the 16-bit service data and the best name from frame.
func parseFrame(frame []byte) (fields, error) {
	ads, err := SplitAD(frame)
	if err != nil {
		return fields{}, err
	}
	var f fields
	found := false
	for _, ad := range ads {
		switch ad.Type {
		case ADServiceData16:
			if len(ad.Data) < 2 {
				return fields{}, fmt.Errorf("%w: short service data", ErrMalformedAD)
			}
			f.uuid = binary.LittleEndian.Uint16(ad.Data)
			f.serviceData = ad.Data[2:]
			found = true
		case ADCompleteName:
			f.name = string(ad.Data)
		case ADShortName:
			if f.name == "" {
				f.name = string(ad.Data)
			}
		}
	}
	if !found {
		return fields{}, ErrNoServiceData
	}
	return f, nil
}
