package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SecretKeySize is the key length PASETO v2 local tokens require.
const SecretKeySize = 32

// GenerateSecretKey returns a random PASETO_SECRET, base64 URL-encoded.
func GenerateSecretKey() (string, error) {
	key := make([]byte, SecretKeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate random key: %w", err)
	}

	return base64.URLEncoding.EncodeToString(key), nil
}
