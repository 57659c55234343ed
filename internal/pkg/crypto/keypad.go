// Package crypto provides the credential hashing primitives for Openlatch:
// salt generation, PBKDF2 code hashing and constant-time comparison.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random bytes in a salt (64 hex characters).
	SaltSize = 32

	// DefaultIterations is the default PBKDF2 iteration count.
	DefaultIterations = 100000

	// keyLength is the derived key length in bytes.
	keyLength = 32
)

// Hasher derives and verifies salted code hashes. It holds no state beyond
// its parameters and consumes randomness only in GenerateSalt.
type Hasher struct {
	iterations int
}

// NewHasher creates a Hasher with the given PBKDF2 iteration count.
// Counts below DefaultIterations are raised to it.
func NewHasher(iterations int) *Hasher {
	if iterations < DefaultIterations {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// GenerateSalt produces a cryptographically random hex-encoded salt,
// SaltSize bytes long (2*SaltSize hex characters).
func (h *Hasher) GenerateSalt() (string, error) {
	buf := make([]byte, SaltSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashValue derives the hex-encoded PBKDF2-HMAC-SHA256 digest of value
// salted with salt. An empty value short-circuits to an empty string;
// callers must never treat an empty hash as a valid stored hash.
func (h *Hasher) HashValue(value, salt string) string {
	if value == "" {
		return ""
	}
	key := pbkdf2.Key([]byte(value), []byte(salt), h.iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

// EncryptCode hashes a code for storage with a fresh salt.
// A nil code yields nil results.
func (h *Hasher) EncryptCode(code *string) (hash, salt *string, err error) {
	if code == nil {
		return nil, nil, nil
	}
	s, err := h.GenerateSalt()
	if err != nil {
		return nil, nil, err
	}
	digest := h.HashValue(*code, s)
	return &digest, &s, nil
}

// VerifyCode reports whether input matches the stored hash/salt pair.
// Fails closed: any empty argument is an immediate mismatch.
func (h *Hasher) VerifyCode(input, storedHash, storedSalt string) bool {
	if input == "" || storedHash == "" || storedSalt == "" {
		return false
	}
	return SecureCompare(h.HashValue(input, storedSalt), storedHash)
}

// SecureCompare performs constant-time string equality to prevent timing
// attacks on credential comparison.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
