package session

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const cookieKeyInfo = "cetra session cookie v1"

// CookieKey derives the AES-256 key used by Fiber's encryptcookie middleware
// from the configured session secret, base64 encoded as that middleware expects.
func CookieKey(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("session secret is required")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(cookieKeyInfo)), key); err != nil {
		return "", fmt.Errorf("derive cookie key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
