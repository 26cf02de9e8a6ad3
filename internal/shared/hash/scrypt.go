package hash

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	DefaultScryptCostLog2 = 16

	defaultScryptBlockSize   = 8
	defaultScryptParallelism = 1

	// Bounds on what a stored hash can ask for. scrypt.Key allocates
	// 128*r*N bytes before validating anything.
	maxScryptCostLog2    = 24
	maxScryptBlockSize   = 32
	maxScryptParallelism = 16
	maxScryptMemory      = 1 << 30

	scryptID = "scrypt"
)

var (
	_ Hasher   = (*scryptHasher)(nil)
	_ Upgrader = (*scryptHasher)(nil)
)

// ScryptParams configures the scrypt driver. N is 1<<CostLog2.
type ScryptParams struct {
	CostLog2    int
	BlockSize   int
	Parallelism int
	SaltLength  int
	KeyLength   int
}

type scryptHasher struct {
	params ScryptParams
}

// NewScrypt creates a scrypt Hasher producing
// "$scrypt$ln=<log2 N>,r=<r>,p=<p>$<salt>$<key>".
func NewScrypt(params ScryptParams) (Hasher, error) {
	if params.CostLog2 == 0 {
		params.CostLog2 = DefaultScryptCostLog2
	}
	if params.BlockSize == 0 {
		params.BlockSize = defaultScryptBlockSize
	}
	if params.Parallelism == 0 {
		params.Parallelism = defaultScryptParallelism
	}
	if params.SaltLength == 0 {
		params.SaltLength = defaultSaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = defaultKeyLength
	}
	if err := validateScrypt(params.CostLog2, params.BlockSize, params.Parallelism); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if params.SaltLength < 8 || params.KeyLength < 16 {
		return nil, fmt.Errorf("%w: scrypt salt_length=%d key_length=%d", ErrInvalidOption, params.SaltLength, params.KeyLength)
	}
	return &scryptHasher{params: params}, nil
}

func validateScrypt(costLog2, blockSize, parallelism int) error {
	switch {
	case costLog2 < 1 || costLog2 > maxScryptCostLog2:
		return fmt.Errorf("scrypt cost_log2 %d out of range [1, %d]", costLog2, maxScryptCostLog2)
	case blockSize < 1 || blockSize > maxScryptBlockSize:
		return fmt.Errorf("scrypt block_size %d out of range [1, %d]", blockSize, maxScryptBlockSize)
	case parallelism < 1 || parallelism > maxScryptParallelism:
		return fmt.Errorf("scrypt parallelism %d out of range [1, %d]", parallelism, maxScryptParallelism)
	}
	memory := uint64(128) * uint64(blockSize) << costLog2
	if memory > maxScryptMemory {
		return fmt.Errorf("scrypt needs %d bytes, limit is %d", memory, maxScryptMemory)
	}
	return nil
}

func (h *scryptHasher) Hash(_ context.Context, plaintext string) (string, error) {
	salt, err := randomSalt(h.params.SaltLength)
	if err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(plaintext), salt, 1<<h.params.CostLog2, h.params.BlockSize, h.params.Parallelism, h.params.KeyLength)
	if err != nil {
		return "", fmt.Errorf("hash: scrypt hashing failed: %w", err)
	}
	return phcHash{
		id: scryptID,
		params: map[string]int{
			"ln": h.params.CostLog2,
			"r":  h.params.BlockSize,
			"p":  h.params.Parallelism,
		},
		salt: salt,
		key:  key,
	}.String(), nil
}

func (h *scryptHasher) Verify(_ context.Context, hashed, plaintext string) (bool, error) {
	p, err := parsePHC(hashed, scryptID)
	if err != nil {
		return false, err
	}
	if err := p.require("ln", "r", "p"); err != nil {
		return false, err
	}
	if err := validateScrypt(p.params["ln"], p.params["r"], p.params["p"]); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	computed, err := scrypt.Key([]byte(plaintext), p.salt, 1<<p.params["ln"], p.params["r"], p.params["p"], len(p.key))
	if err != nil {
		return false, fmt.Errorf("%w: scrypt: %v", ErrInvalidHash, err)
	}
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

func (h *scryptHasher) NeedsUpgrade(hashed string) bool {
	p, err := parsePHC(hashed, scryptID)
	if err != nil {
		return true
	}
	return p.params["ln"] < h.params.CostLog2 ||
		p.params["r"] < h.params.BlockSize ||
		p.params["p"] < h.params.Parallelism ||
		len(p.key) < h.params.KeyLength
}
