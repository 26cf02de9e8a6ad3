package hash

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultPBKDF2Iterations = 310000

	// maxPBKDF2Iterations bounds the work a stored hash can ask for.
	maxPBKDF2Iterations = 5_000_000

	defaultSaltLength = 16
	defaultKeyLength  = 32

	pbkdf2ID = "pbkdf2-sha256"
)

var (
	_ Hasher   = (*pbkdf2Hasher)(nil)
	_ Upgrader = (*pbkdf2Hasher)(nil)
)

// PBKDF2Params configures the PBKDF2-HMAC-SHA256 driver.
type PBKDF2Params struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

type pbkdf2Hasher struct {
	params PBKDF2Params
}

// NewPBKDF2 creates a PBKDF2-HMAC-SHA256 Hasher producing
// "$pbkdf2-sha256$i=<iterations>$<salt>$<key>".
func NewPBKDF2(params PBKDF2Params) (Hasher, error) {
	if params.Iterations == 0 {
		params.Iterations = DefaultPBKDF2Iterations
	}
	if params.SaltLength == 0 {
		params.SaltLength = defaultSaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = defaultKeyLength
	}
	if params.Iterations < 1 || params.Iterations > maxPBKDF2Iterations || params.SaltLength < 8 || params.KeyLength < 16 {
		return nil, fmt.Errorf("%w: pbkdf2 iterations=%d salt_length=%d key_length=%d",
			ErrInvalidOption, params.Iterations, params.SaltLength, params.KeyLength)
	}
	return &pbkdf2Hasher{params: params}, nil
}

func (h *pbkdf2Hasher) Hash(_ context.Context, plaintext string) (string, error) {
	salt, err := randomSalt(h.params.SaltLength)
	if err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(plaintext), salt, h.params.Iterations, h.params.KeyLength, sha256.New)
	return phcHash{
		id:     pbkdf2ID,
		params: map[string]int{"i": h.params.Iterations},
		salt:   salt,
		key:    key,
	}.String(), nil
}

func (h *pbkdf2Hasher) Verify(_ context.Context, hashed, plaintext string) (bool, error) {
	p, err := parsePHC(hashed, pbkdf2ID)
	if err != nil {
		return false, err
	}
	if err := p.require("i"); err != nil {
		return false, err
	}
	if p.params["i"] > maxPBKDF2Iterations {
		return false, fmt.Errorf("%w: pbkdf2: iterations %d exceed %d", ErrInvalidHash, p.params["i"], maxPBKDF2Iterations)
	}
	computed := pbkdf2.Key([]byte(plaintext), p.salt, p.params["i"], len(p.key), sha256.New)
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

func (h *pbkdf2Hasher) NeedsUpgrade(hashed string) bool {
	p, err := parsePHC(hashed, pbkdf2ID)
	if err != nil {
		return true
	}
	return p.params["i"] < h.params.Iterations || len(p.key) < h.params.KeyLength
}
