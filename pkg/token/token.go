// Package token issues opaque session tokens.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

const size = 32

// New returns a random cookie token and the digest under which it is stored.
func New() (raw, digest string, err error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("read random: %w", err)
	}
	raw = base64.RawURLEncoding.EncodeToString(b)
	return raw, Digest(raw), nil
}

// Digest returns the storage key for a raw token.
func Digest(raw string) string {
	sum := blake3.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
