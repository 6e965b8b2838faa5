// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 210_000
	saltLength       = 16
	keyLength        = 32
)

// HashPassword encodes a password as "iterations$salt$hash" with base64
// salt and PBKDF2-SHA256 hash. Used by administrative seeding only; the
// application itself never creates credential records.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := pbkdf2.Key(
		[]byte(password),
		salt,
		pbkdf2Iterations,
		keyLength,
		sha256.New,
	)

	encoded := fmt.Sprintf(
		"%d$%s$%s",
		pbkdf2Iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// VerifyPassword reports whether password matches the stored
// "iterations$salt$hash" value. Malformed input is a verification failure,
// never an error: a stored hash with the wrong part count, a non-numeric
// iteration count, or undecodable base64 yields false. The comparison is
// constant time.
func VerifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(hash) == 0 {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, len(hash), sha256.New)

	return subtle.ConstantTimeCompare(derived, hash) == 1
}

var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// VerifyPasswordTimingSafe behaves like VerifyPassword but always performs
// a full derivation, burning work against a dummy hash when encodedHash is
// absent, so a caller iterating over credential records leaks nothing about
// which records carry hashes.
func VerifyPasswordTimingSafe(password string, encodedHash *string) bool {
	hashToVerify := dummyHash
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid := VerifyPassword(password, hashToVerify)

	if encodedHash == nil || *encodedHash == "" {
		return false
	}

	return valid
}

// SecureCompare is a constant-time string equality check for the legacy
// plaintext credential path.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
