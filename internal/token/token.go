// Package token handles the bearer tokens that grant a pilot access to a
// single invitation. Only digests are stored; the raw token lives in the
// invitation link. Lookups match the digest exactly, so a guess that
// shares a prefix with a real token shares nothing with its digest.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// entropy of a generated token in bytes
const tokenBytes = 32

// digestKey is the BLAKE3 key for invitation token digests, ASCII
// zero-padded to 32 bytes. Changing it invalidates every stored digest.
var digestKey = [32]byte{
	'p', 'i', 'l', 'o', 't', '.', 'i', 'n', 'v', 'i', 't', 'e', '.',
	't', 'o', 'k', 'e', 'n',
}

// Generate returns a new URL-safe random token.
func Generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token.Generate: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Digest returns the hex encoded keyed BLAKE3 hash of token.
func Digest(token string) string {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("token: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(token))

	return hex.EncodeToString(hasher.Sum(nil))
}
