package coinselect

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
)

// chacha20RNG is the default cryptographically seeded RNG: a ChaCha20
// keystream seeded once from the OS CSPRNG, consumed eight bytes at a time.
// Tests inject their own RNG (typically a seeded math/rand source) instead
// of using this one, to keep fallback selection and anti-fee-sniping
// deterministic.
type chacha20RNG struct {
	cipher *chacha20.Cipher
}

// NewDefaultRNG builds the production RNG: a ChaCha20 stream keyed and
// nonced from crypto/rand.
func NewDefaultRNG() (RNG, error) {
	var key [chacha20.KeySize]byte
	var nonce [chacha20.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &chacha20RNG{cipher: cipher}, nil
}

// Uint64 returns the next 8 bytes of keystream as a little-endian uint64.
func (r *chacha20RNG) Uint64() uint64 {
	var zero, out [8]byte
	r.cipher.XORKeyStream(out[:], zero[:])
	return binary.LittleEndian.Uint64(out[:])
}
