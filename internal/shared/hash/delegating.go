package hash

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Encoder is what callers depend on to create and check stored credentials.
// Delegating and Swappable both implement it.
type Encoder interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, stored, plaintext string) (bool, error)
	NeedsUpgrade(stored string) (bool, error)
}

var (
	_ Encoder = (*Delegating)(nil)
	_ Hasher  = (*Delegating)(nil)
)

// Delegating hashes with a default Strategy and verifies any value whose tag
// is bound in its Registry. New values are written as "{id}hash".
type Delegating struct {
	defaultID Strategy
	registry  *Registry
}

// NewDelegating returns an encoder that tags new hashes with defaultID.
// defaultID must be bound in registry.
func NewDelegating(defaultID Strategy, registry *Registry) (*Delegating, error) {
	if registry == nil {
		return nil, errors.New("hash: registry must not be nil")
	}
	if !registry.Has(defaultID) {
		return nil, fmt.Errorf("%w: default %q is not registered", ErrUnknownAlgorithm, defaultID)
	}
	return &Delegating{defaultID: defaultID, registry: registry}, nil
}

func (d *Delegating) DefaultStrategy() Strategy { return d.defaultID }

func (d *Delegating) Registry() *Registry { return d.registry }

// Hash encodes plaintext with the default driver and tags the result.
func (d *Delegating) Hash(ctx context.Context, plaintext string) (string, error) {
	h, err := d.registry.Resolve(d.defaultID)
	if err != nil {
		recordOperation(unresolvedStrategy, OperationHash, OutcomeUnknown)
		return "", err
	}

	start := time.Now()
	hashed, err := h.Hash(ctx, plaintext)
	recordDuration(d.defaultID, OperationHash, start)
	if err != nil {
		recordOperation(d.defaultID, OperationHash, OutcomeError)
		return "", err
	}

	recordOperation(d.defaultID, OperationHash, OutcomeSuccess)
	return Tag(d.defaultID, hashed), nil
}

// Verify checks plaintext against a stored "{id}hash" value using the driver
// bound to id. A wrong password is (false, nil). A value without a valid tag
// fails with ErrMalformedHash and an unbound id with ErrUnknownAlgorithm;
// neither is ever reported as a mismatch.
func (d *Delegating) Verify(ctx context.Context, stored, plaintext string) (bool, error) {
	id, hashed, err := ParseTagged(stored)
	if err != nil {
		recordOperation(unresolvedStrategy, OperationVerify, OutcomeMalformed)
		return false, err
	}

	h, err := d.registry.Resolve(id)
	if err != nil {
		recordOperation(unresolvedStrategy, OperationVerify, OutcomeUnknown)
		return false, err
	}

	start := time.Now()
	ok, err := h.Verify(ctx, hashed, plaintext)
	recordDuration(id, OperationVerify, start)
	switch {
	case err != nil:
		recordOperation(id, OperationVerify, OutcomeError)
		return false, err
	case ok:
		recordOperation(id, OperationVerify, OutcomeMatch)
	default:
		recordOperation(id, OperationVerify, OutcomeMismatch)
	}
	return ok, nil
}

// NeedsUpgrade reports whether stored should be re-encoded with the default
// driver: its tag names another strategy, or the default driver considers
// its parameters outdated.
func (d *Delegating) NeedsUpgrade(stored string) (bool, error) {
	id, hashed, err := ParseTagged(stored)
	if err != nil {
		return false, err
	}
	if id != d.defaultID {
		label := Strategy(unresolvedStrategy)
		if d.registry.Has(id) {
			label = id
		}
		recordOperation(label, OperationNeedsUpgrade, OutcomeNeeded)
		return true, nil
	}

	h, err := d.registry.Resolve(id)
	if err != nil {
		return false, err
	}
	u, ok := h.(Upgrader)
	if !ok || !u.NeedsUpgrade(hashed) {
		return false, nil
	}
	recordOperation(id, OperationNeedsUpgrade, OutcomeNeeded)
	return true, nil
}
