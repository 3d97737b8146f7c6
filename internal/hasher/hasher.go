// Package hasher stores credential secrets as one-way bcrypt digests.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

type Hasher interface {
	Hash(plaintext string) (string, error)
	// Matches reports whether plaintext produced digest. A malformed digest
	// is a mismatch, not an error.
	Matches(plaintext, digest string) bool
}

type Bcrypt struct {
	cost int
}

// NewBcrypt clamps cost into bcrypt's accepted range; zero selects DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

func (b *Bcrypt) Matches(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
