// AngelaMos | 2026
// entity.go

package credential

import (
	"time"

	"github.com/artemiscap/dashboard-api/internal/core"
)

// Record is one stored dashboard identity. Records are inserted
// administratively; the application only ever reads them. A record carries
// either a PBKDF2 hash (preferred) or a plaintext password left over from
// before hashing was introduced.
type Record struct {
	ID            string    `db:"id"`
	UserName      string    `db:"user_name"`
	IsManagement  bool      `db:"is_management"`
	PasswordHash  *string   `db:"password_hash"`
	PasswordPlain *string   `db:"password_plain"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type secretKind int

const (
	secretHashed secretKind = iota
	secretPlaintext
)

// Secret is the two-armed verification variant for a record: hashed or
// legacy plaintext. Forcing the split at scan time keeps the legacy path
// explicit and removable.
type Secret struct {
	kind  secretKind
	value string
}

// Secret returns the record's verification secret, preferring the hash.
// A record with neither arm cannot authenticate anything.
func (r *Record) Secret() (Secret, bool) {
	if r.PasswordHash != nil && *r.PasswordHash != "" {
		return Secret{kind: secretHashed, value: *r.PasswordHash}, true
	}
	if r.PasswordPlain != nil && *r.PasswordPlain != "" {
		return Secret{kind: secretPlaintext, value: *r.PasswordPlain}, true
	}
	return Secret{}, false
}

// Matches verifies candidate against the secret in constant time on both
// arms.
func (s Secret) Matches(candidate string) bool {
	switch s.kind {
	case secretHashed:
		return core.VerifyPassword(candidate, s.value)
	case secretPlaintext:
		return core.SecureCompare(candidate, s.value)
	default:
		return false
	}
}

// IsLegacy reports whether the secret is the plaintext migration arm.
func (s Secret) IsLegacy() bool {
	return s.kind == secretPlaintext
}
