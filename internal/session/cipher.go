package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySalt       = "feedfort-session-store"
	keyIterations = 100000
	keyLength     = 32
)

// tokenCipher encrypts the token at rest with AES-GCM
type tokenCipher struct {
	key []byte
}

// newTokenCipher derives the AES key from passphrase with PBKDF2. An empty
// passphrase falls back to one bound to the host and OS user, which keeps the
// file from being usable if copied elsewhere.
func newTokenCipher(passphrase string) *tokenCipher {
	if passphrase == "" {
		passphrase = defaultPassphrase()
	}
	return &tokenCipher{
		key: pbkdf2.Key([]byte(passphrase), []byte(keySalt), keyIterations, keyLength, sha256.New),
	}
}

func defaultPassphrase() string {
	host, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	return fmt.Sprintf("feedfort:%s:%s:%d", host, home, os.Getuid())
}

func (c *tokenCipher) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *tokenCipher) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
