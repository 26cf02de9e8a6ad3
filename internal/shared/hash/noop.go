package hash

import (
	"context"
	"crypto/subtle"
)

var _ Hasher = noopHasher{}

type noopHasher struct{}

// NewNoop returns a Hasher that stores the plaintext unchanged. It exists so
// legacy "{noop}" records keep verifying until they are re-encoded; never
// make it the default.
func NewNoop() Hasher {
	return noopHasher{}
}

func (noopHasher) Hash(_ context.Context, plaintext string) (string, error) {
	return plaintext, nil
}

func (noopHasher) Verify(_ context.Context, hashed, plaintext string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(hashed), []byte(plaintext)) == 1, nil
}
