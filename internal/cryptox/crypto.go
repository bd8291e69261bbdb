// Package cryptox implements the symmetric cipher used for vault secrets.
//
// A Cipher is built once from external key material and is stateless and
// safe for concurrent use afterwards. Encrypt produces an opaque, URL-safe,
// self-contained token (random nonce prepended to the AES-256-GCM output),
// and Decrypt authenticates the token before returning the plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/yebin817/passvault/internal/common"
)

// KeySize is the AES-256 key length the cipher derives from key material.
const KeySize = 32

const nonceSize = 12

// Cipher encrypts and decrypts UTF-8 strings with AES-256-GCM.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a working key from keyMaterial and returns a ready Cipher.
// The material must be at least KeySize bytes long; only the first KeySize
// bytes are used. Missing or short key material is a configuration error,
// callers must treat it as fatal at startup.
func New(keyMaterial string) (*Cipher, error) {
	if keyMaterial == "" {
		return nil, fmt.Errorf("%w: encryption key material is not set", common.ErrorConfiguration)
	}
	if len(keyMaterial) < KeySize {
		return nil, fmt.Errorf("%w: encryption key material must be at least %d bytes", common.ErrorConfiguration, KeySize)
	}

	block, err := aes.NewCipher([]byte(keyMaterial)[:KeySize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorConfiguration, err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorConfiguration, err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns the token
// base64url(nonce || ciphertext). Two calls with the same input produce
// different tokens.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := common.GenerateRandByteArray(nonceSize)
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt decodes and authenticates a token produced by Encrypt. Any
// malformed, tampered or foreign-key token yields common.ErrDecryption;
// corrupted plaintext is never returned.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", common.ErrDecryption
	}
	if len(raw) < nonceSize {
		return "", common.ErrDecryption
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", common.ErrDecryption
	}
	return string(plaintext), nil
}
