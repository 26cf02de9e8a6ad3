package hash

import "errors"

var (
	// ErrUnknownAlgorithm means an identifier, either the configured default
	// or one parsed from a stored hash, has no registry binding. It is an
	// operational failure, not a wrong password.
	ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")

	// ErrMalformedHash means a stored value has no well-formed {id} prefix.
	ErrMalformedHash = errors.New("hash: malformed tagged hash")

	ErrDuplicateAlgorithm = errors.New("hash: algorithm already registered")
	ErrInvalidAlgorithmID = errors.New("hash: invalid algorithm id")
	ErrNilHasher          = errors.New("hash: hasher must not be nil")

	// ErrInvalidHash is returned by drivers when the untagged hash cannot be
	// parsed.
	ErrInvalidHash = errors.New("hash: invalid hash encoding")

	// ErrInvalidOption is returned by driver constructors.
	ErrInvalidOption = errors.New("hash: invalid option")
)
