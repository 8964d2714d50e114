// Package hash provides password hashing schemes behind a common interface.
//
// The default scheme is an unsalted SHA-256 hex digest: deterministic, so
// credential checks reduce to an exact hash match. That is a known security
// gap, kept for compatibility with existing user rows. Deployments that can
// rehash their users should switch to the bcrypt scheme via HASH_SCHEME.
package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"

	"finbook/internal/config"
)

// PasswordHasher hashes plaintext passwords and verifies them against
// stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

// New returns the hasher for the given scheme name. Unknown schemes fall
// back to SHA-256.
func New(scheme string) PasswordHasher {
	if scheme == config.HashSchemeBcrypt {
		return BcryptHasher{}
	}
	return SHA256Hasher{}
}

// SHA256Hasher is the deterministic, unsalted legacy scheme.
type SHA256Hasher struct{}

// Hash returns the SHA-256 hex digest of the password.
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether hashing the password reproduces the stored digest.
func (h SHA256Hasher) Verify(hashed, password string) bool {
	digest, _ := h.Hash(password)
	return digest == hashed
}

// BcryptHasher is the salted, slow scheme.
type BcryptHasher struct{}

// Hash returns a bcrypt hash of the password at the default cost.
func (BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether the password matches the stored bcrypt hash.
func (BcryptHasher) Verify(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
