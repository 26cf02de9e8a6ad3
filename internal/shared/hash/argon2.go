package hash

import (
	"context"
	"crypto/subtle"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/crypto/argon2"
)

const (
	DefaultArgon2Memory      = 64 * 1024
	DefaultArgon2Iterations  = 3
	DefaultArgon2Parallelism = 2

	// Bounds on what a stored hash can ask for. Memory is 4 GiB.
	maxArgon2Memory     = 4 * 1024 * 1024
	maxArgon2Iterations = 64

	argon2ID = "argon2id"
)

var (
	_ Hasher   = (*argon2Hasher)(nil)
	_ Upgrader = (*argon2Hasher)(nil)
)

// Argon2Params configures the Argon2id driver. Memory is in KiB.
type Argon2Params struct {
	Memory      int
	Iterations  int
	Parallelism int
	SaltLength  int
	KeyLength   int
}

type argon2Hasher struct {
	params Argon2Params
}

// NewArgon2 creates an Argon2id Hasher producing the PHC string
// "$argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>".
func NewArgon2(params Argon2Params) (Hasher, error) {
	if params.Memory == 0 {
		params.Memory = DefaultArgon2Memory
	}
	if params.Iterations == 0 {
		params.Iterations = DefaultArgon2Iterations
	}
	if params.Parallelism == 0 {
		params.Parallelism = DefaultArgon2Parallelism
	}
	if params.SaltLength == 0 {
		params.SaltLength = defaultSaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = defaultKeyLength
	}
	if err := validateArgon2(params.Memory, params.Iterations, params.Parallelism); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if params.SaltLength < 8 || params.KeyLength < 16 {
		return nil, fmt.Errorf("%w: argon2 salt_length=%d key_length=%d", ErrInvalidOption, params.SaltLength, params.KeyLength)
	}
	return &argon2Hasher{params: params}, nil
}

func validateArgon2(memory, iterations, parallelism int) error {
	switch {
	case iterations < 1 || iterations > maxArgon2Iterations:
		return fmt.Errorf("argon2 iterations %d out of range [1, %d]", iterations, maxArgon2Iterations)
	case parallelism < 1 || parallelism > math.MaxUint8:
		return fmt.Errorf("argon2 parallelism %d out of range [1, %d]", parallelism, math.MaxUint8)
	case memory < 8*parallelism || memory > maxArgon2Memory:
		return fmt.Errorf("argon2 memory %d KiB out of range [%d, %d]", memory, 8*parallelism, maxArgon2Memory)
	}
	return nil
}

func (h *argon2Hasher) Hash(_ context.Context, plaintext string) (string, error) {
	salt, err := randomSalt(h.params.SaltLength)
	if err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), salt,
		uint32(h.params.Iterations), uint32(h.params.Memory), uint8(h.params.Parallelism), uint32(h.params.KeyLength))
	return phcHash{
		id:      argon2ID,
		version: strconv.Itoa(argon2.Version),
		params: map[string]int{
			"m": h.params.Memory,
			"t": h.params.Iterations,
			"p": h.params.Parallelism,
		},
		salt: salt,
		key:  key,
	}.String(), nil
}

func (h *argon2Hasher) Verify(_ context.Context, hashed, plaintext string) (bool, error) {
	p, err := parsePHC(hashed, argon2ID)
	if err != nil {
		return false, err
	}
	if p.version != strconv.Itoa(argon2.Version) {
		return false, fmt.Errorf("%w: argon2id: unsupported version %q", ErrInvalidHash, p.version)
	}
	if err := p.require("m", "t", "p"); err != nil {
		return false, err
	}
	if err := validateArgon2(p.params["m"], p.params["t"], p.params["p"]); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	computed := argon2.IDKey([]byte(plaintext), p.salt,
		uint32(p.params["t"]), uint32(p.params["m"]), uint8(p.params["p"]), uint32(len(p.key)))
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

func (h *argon2Hasher) NeedsUpgrade(hashed string) bool {
	p, err := parsePHC(hashed, argon2ID)
	if err != nil {
		return true
	}
	return p.params["m"] < h.params.Memory ||
		p.params["t"] < h.params.Iterations ||
		p.params["p"] < h.params.Parallelism ||
		len(p.key) < h.params.KeyLength
}
