package hash

import (
	"context"
	"fmt"
	"strings"
)

// Strategy identifies a hashing algorithm and is the tag written in front of
// every stored hash.
type Strategy string

const (
	StrategyBcrypt Strategy = "bcrypt"
	StrategyPBKDF2 Strategy = "pbkdf2"
	StrategyScrypt Strategy = "scrypt"
	StrategyArgon2 Strategy = "argon2"
	// StrategyNoop stores the plaintext. Legacy records only.
	StrategyNoop Strategy = "noop"
)

// Validate reports whether s can be used as a tag.
func (s Strategy) Validate() error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAlgorithmID)
	}
	if strings.ContainsAny(string(s), tagOpen+tagClose) {
		return fmt.Errorf("%w: %q contains a brace", ErrInvalidAlgorithmID, s)
	}
	return nil
}

// Options configures a single algorithm driver. Fields not used by the
// selected Strategy are ignored; zero values fall back to the driver defaults.
type Options struct {
	// Strategy selects the hashing algorithm.
	Strategy Strategy

	// Cost is the bcrypt work factor.
	Cost int

	// Iterations is the PBKDF2 iteration count or the Argon2 time cost.
	Iterations int

	// CostLog2 is log2(N) for scrypt.
	CostLog2 int

	// BlockSize is the scrypt r parameter.
	BlockSize int

	// Parallelism is the scrypt p parameter or the Argon2 thread count.
	Parallelism int

	// Memory is the Argon2 memory cost in KiB.
	Memory int

	SaltLength int
	KeyLength  int
}

// Hasher is the interface every algorithm driver implements.
// Implementations must be safe for concurrent use.
type Hasher interface {
	// Hash returns a hashed representation of the plaintext. Salted drivers
	// return a different value on every call.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify checks whether the plaintext matches the hashed value. A clean
	// mismatch is (false, nil); an error means the hash could not be checked.
	Verify(ctx context.Context, hashed, plaintext string) (bool, error)
}

// Upgrader is implemented by drivers that can tell when a hash was produced
// with parameters other than their current configuration.
type Upgrader interface {
	NeedsUpgrade(hashed string) bool
}

// New creates a Hasher based on the provided options.
// Returns an error if the strategy is unknown or configuration is invalid.
func New(opts Options) (Hasher, error) {
	switch opts.Strategy {
	case StrategyBcrypt:
		return NewBcrypt(opts.Cost)
	case StrategyPBKDF2:
		return NewPBKDF2(PBKDF2Params{
			Iterations: opts.Iterations,
			SaltLength: opts.SaltLength,
			KeyLength:  opts.KeyLength,
		})
	case StrategyScrypt:
		return NewScrypt(ScryptParams{
			CostLog2:    opts.CostLog2,
			BlockSize:   opts.BlockSize,
			Parallelism: opts.Parallelism,
			SaltLength:  opts.SaltLength,
			KeyLength:   opts.KeyLength,
		})
	case StrategyArgon2:
		return NewArgon2(Argon2Params{
			Memory:      opts.Memory,
			Iterations:  opts.Iterations,
			Parallelism: opts.Parallelism,
			SaltLength:  opts.SaltLength,
			KeyLength:   opts.KeyLength,
		})
	case StrategyNoop:
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, opts.Strategy)
	}
}
