package crypto

import "encoding/binary"

// MACSize is the BLE hardware address length.
const MACSize = 6

// BuildNonce constructs the 13-byte BTHome AEAD nonce.
//
// Format: MAC (6 bytes, most significant first) || UUID (0xD2 0xFC) ||
// device information byte || counter (4 bytes LE)
//
// mac is given in transmission order (least significant byte first), as
// stored by BLE stacks, and is reversed into the nonce.
func BuildNonce(mac [MACSize]byte, uuid uint16, indicator uint8, counter uint32) []byte {
	nonce := make([]byte, NonceSize)
	for i := 0; i < MACSize; i++ {
		nonce[i] = mac[MACSize-1-i]
	}
	binary.LittleEndian.PutUint16(nonce[6:8], uuid)
	nonce[8] = indicator
	binary.LittleEndian.PutUint32(nonce[9:13], counter)
	return nonce
}
