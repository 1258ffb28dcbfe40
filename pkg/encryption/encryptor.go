package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required length of the Tier-2 encryption key.
const KeySize = chacha20poly1305.KeySize

var ErrKeySize = errors.New("encryption key must be 32 bytes")

// Encryptor seals Tier-2 response payloads. The key is injected at
// construction and never read from package state; only the compliance path
// ever holds a decrypting instance.
type Encryptor struct {
	aead cipher.AEAD
}

func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("initialising cipher: %w", err)
	}
	return &Encryptor{aead: aead}, nil
}

// Encrypt seals plaintext into an opaque blob: random nonce followed by the
// ciphertext. The blob is reversible only by a holder of the key.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Compliance use only.
func (e *Encryptor) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < e.aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := blob[:e.aead.NonceSize()], blob[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("opening ciphertext: %w", err)
	}
	return plaintext, nil
}

// HashOrigin one-way hashes a submitter's network origin for abuse
// detection. The hash cannot be reversed to an address and is the only
// origin-derived value ever persisted.
func HashOrigin(remoteAddr string) string {
	sum := sha256.Sum256([]byte(remoteAddr))
	return hex.EncodeToString(sum[:])
}
