package hash

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps a Strategy to the Hasher that implements it. A Registry is
// immutable once built and safe for concurrent reads without locking.
type Registry struct {
	hashers map[Strategy]Hasher
}

// RegistryOption configures a RegistryBuilder.
type RegistryOption func(*RegistryBuilder)

// WithStrict makes Register reject a Strategy that is already bound.
func WithStrict() RegistryOption {
	return func(b *RegistryBuilder) {
		b.strict = true
	}
}

// RegistryBuilder collects bindings before a Registry is built.
// It is not safe for concurrent use.
type RegistryBuilder struct {
	hashers map[Strategy]Hasher
	strict  bool
}

func NewRegistryBuilder(opts ...RegistryOption) *RegistryBuilder {
	b := &RegistryBuilder{hashers: make(map[Strategy]Hasher)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register binds id to h. The last registration wins unless the builder is
// strict, in which case a second binding fails with ErrDuplicateAlgorithm.
func (b *RegistryBuilder) Register(id Strategy, h Hasher) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: %q", ErrNilHasher, id)
	}
	if _, exists := b.hashers[id]; exists && b.strict {
		return fmt.Errorf("%w: %q", ErrDuplicateAlgorithm, id)
	}
	b.hashers[id] = h
	return nil
}

// Build returns a Registry holding a copy of the current bindings. The
// builder may keep being used; later registrations do not affect the result.
func (b *RegistryBuilder) Build() *Registry {
	return &Registry{hashers: maps.Clone(b.hashers)}
}

// Resolve returns the Hasher bound to id.
func (r *Registry) Resolve(id Strategy) (Hasher, error) {
	h, ok := r.hashers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return h, nil
}

func (r *Registry) Has(id Strategy) bool {
	_, ok := r.hashers[id]
	return ok
}

// Strategies returns the registered ids in lexical order.
func (r *Registry) Strategies() []Strategy {
	return slices.Sorted(maps.Keys(r.hashers))
}

func (r *Registry) Len() int {
	return len(r.hashers)
}
