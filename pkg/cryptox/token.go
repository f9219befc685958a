// Package cryptox covers the credential primitives the panel needs: opaque
// token generation, token fingerprinting and password hashing.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token sizes in raw bytes before base64url encoding.
const (
	TokenSize128 = 16 // 22 encoded chars
	TokenSize256 = 32 // 43 encoded chars, used for refresh credentials and emailed links
)

// GenerateToken draws size random bytes and encodes them base64url without
// padding, making the result safe inside URLs and cookies.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// MustGenerateToken panics instead of returning an error. Initialization
// paths only.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(err)
	}
	return token
}

// FingerprintToken maps a token to its SHA-256 digest, base64url encoded.
// The database stores fingerprints only; a leaked row cannot be replayed as
// a live credential.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
