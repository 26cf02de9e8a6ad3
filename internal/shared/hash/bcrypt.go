package hash

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is zero.
const DefaultBcryptCost = 12

var (
	_ Hasher   = (*bcryptHasher)(nil)
	_ Upgrader = (*bcryptHasher)(nil)
)

type bcryptHasher struct {
	cost int
}

// NewBcrypt creates a bcrypt-based Hasher.
// If cost is zero, DefaultBcryptCost (12) is used.
// Cost must be between bcrypt.MinCost (4) and bcrypt.MaxCost (31).
func NewBcrypt(cost int) (Hasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range [%d, %d]", ErrInvalidOption, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &bcryptHasher{cost: cost}, nil
}

func (h *bcryptHasher) Hash(_ context.Context, plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash: bcrypt hashing failed: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(_ context.Context, hashed, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: bcrypt: %v", ErrInvalidHash, err)
	}
}

// NeedsUpgrade reports whether hashed was produced with a lower cost than
// the configured one. Unparseable hashes always need an upgrade.
func (h *bcryptHasher) NeedsUpgrade(hashed string) bool {
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		return true
	}
	return cost < h.cost
}
