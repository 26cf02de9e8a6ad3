package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuarp/passhash/internal/domain"
	"github.com/joshuarp/passhash/internal/domain/vo"
	sharedhash "github.com/joshuarp/passhash/internal/shared/hash"
)

// CredentialRepository is the external credential store.
type CredentialRepository interface {
	GetCredential(ctx context.Context, subject string) (domain.Credential, error)
	UpdatePasswordHash(ctx context.Context, subject, passwordHash string) error
}

type CredentialService struct {
	repository CredentialRepository
	encoder    sharedhash.Encoder
	logger     *slog.Logger
}

func NewCredentialService(
	repository CredentialRepository,
	encoder sharedhash.Encoder,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		repository: repository,
		encoder:    encoder,
		logger:     logger,
	}
}

// Verify checks plaintext against the subject's stored hash. A wrong
// password is vo.ErrInvalidCredentials; a record that cannot be checked
// (malformed, unknown algorithm) is returned as a distinct error. After a
// successful check the stored hash is re-encoded with the current default
// when it is outdated; a failed re-encode is logged and does not fail the
// check.
func (s *CredentialService) Verify(ctx context.Context, subject, plaintext string) (vo.CredentialCheck, error) {
	normalizedSubject := normalizeSubject(subject)
	if normalizedSubject == "" || strings.TrimSpace(plaintext) == "" {
		return vo.CredentialCheck{}, vo.ErrInvalidCredentials
	}

	credential, err := s.repository.GetCredential(ctx, normalizedSubject)
	if err != nil {
		if errors.Is(err, vo.ErrCredentialNotFound) {
			return vo.CredentialCheck{}, vo.ErrInvalidCredentials
		}
		return vo.CredentialCheck{}, fmt.Errorf("service: failed to load credential: %w", err)
	}

	ok, err := s.encoder.Verify(ctx, credential.PasswordHash, plaintext)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored credential cannot be verified",
			"subject", normalizedSubject,
			"error", err,
		)
		return vo.CredentialCheck{}, fmt.Errorf("service: failed to verify credential: %w", err)
	}
	if !ok {
		return vo.CredentialCheck{}, vo.ErrInvalidCredentials
	}

	strategy, _, _ := sharedhash.ParseTagged(credential.PasswordHash)
	result := vo.CredentialCheck{
		Subject:  normalizedSubject,
		Strategy: string(strategy),
	}

	upgraded, err := s.upgrade(ctx, normalizedSubject, credential.PasswordHash, plaintext)
	if err != nil {
		s.logger.WarnContext(ctx, "credential upgrade failed",
			"subject", normalizedSubject,
			"strategy", result.Strategy,
			"error", err,
		)
		return result, nil
	}
	result.Upgraded = upgraded
	return result, nil
}

// SetPassword hashes plaintext with the current default strategy and stores it.
func (s *CredentialService) SetPassword(ctx context.Context, subject, plaintext string) (string, error) {
	normalizedSubject := normalizeSubject(subject)
	if normalizedSubject == "" || strings.TrimSpace(plaintext) == "" {
		return "", vo.ErrInvalidCredentials
	}

	hashed, err := s.encoder.Hash(ctx, plaintext)
	if err != nil {
		return "", fmt.Errorf("service: failed to hash password: %w", err)
	}
	if err := s.repository.UpdatePasswordHash(ctx, normalizedSubject, hashed); err != nil {
		return "", fmt.Errorf("service: failed to store password hash: %w", err)
	}
	return hashed, nil
}

func (s *CredentialService) upgrade(ctx context.Context, subject, stored, plaintext string) (bool, error) {
	needs, err := s.encoder.NeedsUpgrade(stored)
	if err != nil || !needs {
		return false, err
	}

	hashed, err := s.encoder.Hash(ctx, plaintext)
	if err != nil {
		return false, fmt.Errorf("service: failed to re-hash password: %w", err)
	}
	if err := s.repository.UpdatePasswordHash(ctx, subject, hashed); err != nil {
		return false, fmt.Errorf("service: failed to store upgraded hash: %w", err)
	}

	newStrategy, _, _ := sharedhash.ParseTagged(hashed)
	s.logger.InfoContext(ctx, "credential upgraded",
		"subject", subject,
		"strategy", string(newStrategy),
	)
	return true, nil
}

func normalizeSubject(subject string) string {
	return strings.TrimSpace(strings.ToLower(subject))
}
