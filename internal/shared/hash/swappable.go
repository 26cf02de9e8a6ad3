package hash

import (
	"context"
	"errors"
	"sync/atomic"
)

var _ Encoder = (*Swappable)(nil)

// Swappable holds the current Delegating encoder and lets it be replaced
// while other goroutines are hashing. Every call works on one snapshot, so a
// reader never sees a registry from one generation with a default from
// another.
type Swappable struct {
	current atomic.Pointer[Delegating]
}

func NewSwappable(initial *Delegating) (*Swappable, error) {
	if initial == nil {
		return nil, errors.New("hash: initial encoder must not be nil")
	}
	s := &Swappable{}
	s.current.Store(initial)
	return s, nil
}

// Load returns the current encoder.
func (s *Swappable) Load() *Delegating {
	return s.current.Load()
}

// Store replaces the current encoder and returns the previous one. A nil
// encoder is ignored.
func (s *Swappable) Store(next *Delegating) *Delegating {
	if next == nil {
		return s.current.Load()
	}
	return s.current.Swap(next)
}

func (s *Swappable) Hash(ctx context.Context, plaintext string) (string, error) {
	return s.Load().Hash(ctx, plaintext)
}

func (s *Swappable) Verify(ctx context.Context, stored, plaintext string) (bool, error) {
	return s.Load().Verify(ctx, stored, plaintext)
}

func (s *Swappable) NeedsUpgrade(stored string) (bool, error) {
	return s.Load().NeedsUpgrade(stored)
}
