package reflection

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Cipher seals journal bodies with AES-256-GCM. Sealed values are hex
// encoded with the nonce prepended.
type Cipher struct {
	gcm cipher.AEAD
}

// NewCipher builds a Cipher from a 64-character hex key.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes (64 hex chars), got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Cipher{gcm: gcm}, nil
}

// Seal encrypts plaintext, binding it to userID so an entry cannot be
// replayed under another learner.
func (c *Cipher) Seal(userID, plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), []byte(userID))
	return hex.EncodeToString(sealed), nil
}

// Open reverses Seal for the same userID.
func (c *Cipher) Open(userID, sealedHex string) (string, error) {
	sealed, err := hex.DecodeString(sealedHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	n := c.gcm.NonceSize()
	if len(sealed) < n {
		return "", errors.New("ciphertext too short")
	}
	plaintext, err := c.gcm.Open(nil, sealed[:n], sealed[n:], []byte(userID))
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}
	return string(plaintext), nil
}
