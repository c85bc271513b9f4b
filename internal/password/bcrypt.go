// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost the service has always used for stored hashes.
const DefaultCost = 10

// MaxLength is the longest password bcrypt can hash without truncation.
const MaxLength = 72

// ErrTooLong is returned for passwords longer than MaxLength bytes.
var ErrTooLong = errors.New("password is too long")

// Bcrypt hashes passwords with a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher. Costs outside bcrypt's range fall back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns a salted one-way hash of plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxLength {
		return "", ErrTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. The comparison is constant
// time; a malformed hash counts as a mismatch.
func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
