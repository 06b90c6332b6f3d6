// Package cryptox derives password hashes with argon2id.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches password with salt into a 32-byte argon2id key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword returns the hex encoded key for password under pepper. The
// result is deterministic so stored hashes can be compared directly.
func HashPassword(password, pepper string) string {
	return hex.EncodeToString(DeriveKey([]byte(password), []byte(pepper)))
}

// CheckPassword reports whether password hashes to stored.
func CheckPassword(stored, password, pepper string) bool {
	candidate := HashPassword(password, pepper)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
