// AES-128-CCM (NIST 800-38C, RFC 3610) with the parameters used by BTHome
// encrypted advertisements: 13-byte nonce (L = 2) and a 4-byte MIC.

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

const (
	// KeySize is the bind key length in bytes.
	KeySize = 16

	// NonceSize is the CCM nonce length used by BTHome.
	NonceSize = 13

	// MICSize is the truncated authentication tag length used by BTHome.
	MICSize = 4

	blockSize = aes.BlockSize
)

var (
	ErrInvalidKeySize     = errors.New("crypto: invalid key size, must be 16 bytes")
	ErrInvalidNonceSize   = errors.New("crypto: invalid nonce size")
	ErrInvalidTagSize     = errors.New("crypto: invalid tag size, must be 4, 6, 8, 10, 12, 14, or 16")
	ErrPlaintextTooLong   = errors.New("crypto: plaintext too long")
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")
	ErrAuthFailed         = errors.New("crypto: message authentication failed")
)

// AESCCM is an AES-128-CCM AEAD with a fixed nonce and tag size.
type AESCCM struct {
	block   cipher.Block
	tagSize int // M
	lenSize int // L = 15 - nonce size
}

// NewAESCCM returns a cipher with the BTHome parameters (13-byte nonce, 4-byte MIC).
func NewAESCCM(key []byte) (*AESCCM, error) {
	return NewAESCCMWithParams(key, NonceSize, MICSize)
}

// NewAESCCMWithParams returns a cipher with an explicit nonce size (7..13)
// and tag size (even, 4..16).
func NewAESCCMWithParams(key []byte, nonceSize, tagSize int) (*AESCCM, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	lenSize := 15 - nonceSize
	if lenSize < 2 || lenSize > 8 {
		return nil, ErrInvalidNonceSize
	}
	if tagSize < 4 || tagSize > 16 || tagSize%2 != 0 {
		return nil, ErrInvalidTagSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &AESCCM{block: block, tagSize: tagSize, lenSize: lenSize}, nil
}

// NonceSize returns the nonce length the cipher expects.
func (c *AESCCM) NonceSize() int { return 15 - c.lenSize }

// TagSize returns the authentication tag length.
func (c *AESCCM) TagSize() int { return c.tagSize }

// SealDetached encrypts plaintext and returns the ciphertext (same length as
// plaintext) and the authentication tag separately. BTHome places the
// counter between the two on the wire.
func (c *AESCCM) SealDetached(nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	if len(nonce) != c.NonceSize() {
		return nil, nil, ErrInvalidNonceSize
	}
	if c.lenSize < 8 && uint64(len(plaintext)) >= uint64(1)<<(8*c.lenSize) {
		return nil, nil, ErrPlaintextTooLong
	}

	mac := c.cbcMAC(nonce, plaintext, aad)

	tag = make([]byte, c.tagSize)
	s0 := c.counterBlock(nonce, 0)
	subtle.XORBytes(tag, mac[:c.tagSize], s0[:c.tagSize])

	ciphertext = make([]byte, len(plaintext))
	c.xorKeyStream(nonce, ciphertext, plaintext)
	return ciphertext, tag, nil
}

// seal encrypts plaintext and returns ciphertext || tag.
func (c *AESCCM) seal(nonce, plaintext, aad []byte) ([]byte, error) {
	ciphertext, tag, err := c.SealDetached(nonce, plaintext, aad)
	if err != nil {
		return nil, err
	}
	return append(ciphertext, tag...), nil
}

// open authenticates and decrypts ciphertext || tag.
func (c *AESCCM) open(nonce, sealed, aad []byte) ([]byte, error) {
	if len(sealed) < c.tagSize {
		return nil, ErrCiphertextTooShort
	}
	n := len(sealed) - c.tagSize
	return c.OpenDetached(nonce, sealed[:n], sealed[n:], aad)
}

// OpenDetached authenticates and decrypts a ciphertext whose tag travels
// separately.
func (c *AESCCM) OpenDetached(nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(nonce) != c.NonceSize() {
		return nil, ErrInvalidNonceSize
	}
	if len(tag) != c.tagSize {
		return nil, ErrCiphertextTooShort
	}

	plaintext := make([]byte, len(ciphertext))
	c.xorKeyStream(nonce, plaintext, ciphertext)

	expected := make([]byte, c.tagSize)
	s0 := c.counterBlock(nonce, 0)
	mac := c.cbcMAC(nonce, plaintext, aad)
	subtle.XORBytes(expected, mac[:c.tagSize], s0[:c.tagSize])

	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// cbcMAC computes the untruncated CBC-MAC T over B_0, the encoded AAD and
// the plaintext.
func (c *AESCCM) cbcMAC(nonce, plaintext, aad []byte) [blockSize]byte {
	var b0 [blockSize]byte
	flags := byte((c.tagSize-2)/2)<<3 | byte(c.lenSize-1)
	if len(aad) > 0 {
		flags |= 0x40
	}
	b0[0] = flags
	copy(b0[1:], nonce)
	length := uint64(len(plaintext))
	for i := blockSize - 1; i > c.NonceSize(); i-- {
		b0[i] = byte(length)
		length >>= 8
	}

	var mac [blockSize]byte
	c.block.Encrypt(mac[:], b0[:])

	if len(aad) > 0 {
		var header []byte
		switch n := uint64(len(aad)); {
		case n < 0xFF00:
			header = binary.BigEndian.AppendUint16(nil, uint16(n))
		case n <= 0xFFFFFFFF:
			header = binary.BigEndian.AppendUint32([]byte{0xFF, 0xFE}, uint32(n))
		default:
			header = binary.BigEndian.AppendUint64([]byte{0xFF, 0xFF}, n)
		}
		c.absorb(&mac, append(header, aad...))
	}
	c.absorb(&mac, plaintext)
	return mac
}

// absorb chains data into the MAC state, zero-padding the final block.
func (c *AESCCM) absorb(mac *[blockSize]byte, data []byte) {
	for len(data) > 0 {
		n := subtle.XORBytes(mac[:], mac[:], data)
		data = data[n:]
		c.block.Encrypt(mac[:], mac[:])
	}
}

// counterBlock returns E(K, A_i).
func (c *AESCCM) counterBlock(nonce []byte, i uint64) [blockSize]byte {
	var a [blockSize]byte
	a[0] = byte(c.lenSize - 1)
	copy(a[1:], nonce)
	for j := blockSize - 1; j > c.NonceSize(); j-- {
		a[j] = byte(i)
		i >>= 8
	}
	var s [blockSize]byte
	c.block.Encrypt(s[:], a[:])
	return s
}

// xorKeyStream applies the CTR keystream starting at counter 1.
func (c *AESCCM) xorKeyStream(nonce []byte, dst, src []byte) {
	for i, ctr := 0, uint64(1); i < len(src); i, ctr = i+blockSize, ctr+1 {
		s := c.counterBlock(nonce, ctr)
		subtle.XORBytes(dst[i:], src[i:], s[:])
	}
}
