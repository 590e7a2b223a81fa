package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
)

// Access tokens are sealed with AES-GCM before they hit the database.
// The 32-byte cipher key is derived from the configured secret, so the
// secret itself can be any length.

func deriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func EncryptToken(plaintext, secret string) (string, error) {
	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	sealed := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func DecryptToken(encrypted, secret string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := aesGCM.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return string(plaintext), nil
}
