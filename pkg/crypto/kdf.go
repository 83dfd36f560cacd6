package crypto

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var bindKeyInfo = []byte("BTHome bind key")

// ErrEmptySecret is returned when a bind key is derived from an empty secret.
var ErrEmptySecret = errors.New("crypto: empty secret")

// DeriveBindKey derives a 16-byte bind key from a provisioning secret using
// HKDF-SHA256 with the device MAC as salt, so one secret yields a distinct
// key per device.
func DeriveBindKey(secret []byte, mac [MACSize]byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	reader := hkdf.New(sha256.New, secret, mac[:], bindKeyInfo)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
