// Package crypto holds the at-rest codec for sensitive card fields.
//
// The codec is AES-CBC with a process-wide key and IV, so equal plaintexts
// produce equal ciphertexts. Nothing compares ciphertexts (suffix lookups run
// against the plaintext pan_suffix column); an authenticated mode with a
// per-record nonce would be the hardening path if that ever changes.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/dtb-bank/core-banking/pkg"
)

// FieldCodec encrypts and decrypts individual string fields. The key and IV
// are fixed at construction and never mutated.
type FieldCodec struct {
	key []byte
	iv  []byte
}

// NewFieldCodec validates the key and IV lengths up front so a
// misconfigured process fails at startup, not on the first card write.
func NewFieldCodec(key, iv []byte) (*FieldCodec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, pkg.NewAppError(pkg.ErrCryptoCode, "encryption key must be 16, 24, or 32 bytes", fmt.Errorf("got %d bytes", len(key)))
	}
	if len(iv) != aes.BlockSize {
		return nil, pkg.NewAppError(pkg.ErrCryptoCode, "initialization vector must be 16 bytes", fmt.Errorf("got %d bytes", len(iv)))
	}
	return &FieldCodec{key: key, iv: iv}, nil
}

// Encrypt returns the Base64 ciphertext of plaintext.
func (c *FieldCodec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", pkg.NewAppError(pkg.ErrCryptoCode, "cannot encrypt empty value", nil)
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", pkg.NewAppError(pkg.ErrCryptoCode, "cipher init failed", err)
	}

	padded := pad([]byte(plaintext))
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(ciphertext, padded)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Corrupt input is reported as a codec failure;
// the error never contains the ciphertext.
func (c *FieldCodec) Decrypt(encoded string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", pkg.NewAppError(pkg.ErrCryptoCode, "ciphertext is not valid base64", nil)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", pkg.NewAppError(pkg.ErrCryptoCode, "ciphertext length is not a block multiple", nil)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", pkg.NewAppError(pkg.ErrCryptoCode, "cipher init failed", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := unpad(plaintext)
	if !ok {
		return "", pkg.NewAppError(pkg.ErrCryptoCode, "invalid padding", nil)
	}
	return string(unpadded), nil
}

// PKCS#7
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	for i := 0; i < n; i++ {
		data = append(data, byte(n))
	}
	return data
}

func unpad(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, false
	}
	for i := len(data) - n; i < len(data); i++ {
		if int(data[i]) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
