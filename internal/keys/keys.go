// Package keys encrypts private keys before they are stored, so they are never
// kept or displayed in plain text.
package keys

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

var (
	ErrMissingEncryptKey = errors.New("ENCRYPT_KEY is not set")
	ErrInvalidEncryptKey = errors.New("ENCRYPT_KEY is not a valid key")
	ErrDecrypt           = errors.New("failed to decrypt value")
)

// Cipher encrypts and decrypts stored private keys with ENCRYPT_KEY.
// A missing or malformed key is only reported when a value is processed.
type Cipher struct {
	raw string
}

// New never fails; see Encrypt and Decrypt for key validation.
func New(encryptKey string) *Cipher {
	return &Cipher{raw: encryptKey}
}

func (c *Cipher) key() (*fernet.Key, error) {
	if c.raw == "" {
		return nil, ErrMissingEncryptKey
	}
	k, err := fernet.DecodeKey(c.raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptKey, err)
	}
	return k, nil
}

// Encrypt returns the token for plaintext
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	k, err := c.key()
	if err != nil {
		return "", err
	}
	tok, err := fernet.EncryptAndSign([]byte(plaintext), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}
	return string(tok), nil
}

// Decrypt returns the plaintext of a token produced by Encrypt
func (c *Cipher) Decrypt(token string) (string, error) {
	k, err := c.key()
	if err != nil {
		return "", err
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k})
	if msg == nil {
		return "", ErrDecrypt
	}
	return string(msg), nil
}

// GenerateKey returns a new random key suitable for ENCRYPT_KEY
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}
