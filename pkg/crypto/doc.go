// Package crypto provides the AES-CCM primitive, nonce construction and bind
// key derivation used by encrypted BTHome advertisements.
package crypto
