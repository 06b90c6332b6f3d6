package common

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// MakeRandHexString returns size random bytes encoded as hex (2*size chars).
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsValidID reports whether id is a canonical node or user identifier.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// NewID returns a fresh identifier.
func NewID() string {
	return uuid.NewString()
}
