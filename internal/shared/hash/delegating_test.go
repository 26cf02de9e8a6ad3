package hash

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type DelegatingSuite struct {
	suite.Suite

	ctx      context.Context
	registry *Registry
}

func (s *DelegatingSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = newFastRegistry(s.T())
}

func (s *DelegatingSuite) newDelegating(id Strategy) *Delegating {
	d, err := NewDelegating(id, s.registry)
	require.NoError(s.T(), err)
	return d
}

func (s *DelegatingSuite) TestNewDelegating_DefaultMustBeRegistered() {
	d, err := NewDelegating("sha1", s.registry)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, ErrUnknownAlgorithm)
	assert.Nil(s.T(), d)

	d, err = NewDelegating(StrategyBcrypt, nil)
	require.Error(s.T(), err)
	assert.Nil(s.T(), d)
}

func (s *DelegatingSuite) TestHashAndVerify_EveryStrategy() {
	for _, id := range s.registry.Strategies() {
		s.Run(string(id), func() {
			d := s.newDelegating(id)

			stored, err := d.Hash(s.ctx, "s3cr3t!")
			require.NoError(s.T(), err)
			assert.True(s.T(), strings.HasPrefix(stored, "{"+string(id)+"}"))

			ok, err := d.Verify(s.ctx, stored, "s3cr3t!")
			require.NoError(s.T(), err)
			assert.True(s.T(), ok)

			ok, err = d.Verify(s.ctx, stored, "s3cr3t?")
			require.NoError(s.T(), err)
			assert.False(s.T(), ok, "no false positive for a different password")
		})
	}
}

func (s *DelegatingSuite) TestHash_SaltedStrategiesAreNondeterministic() {
	for _, id := range []Strategy{StrategyBcrypt, StrategyPBKDF2, StrategyScrypt, StrategyArgon2} {
		s.Run(string(id), func() {
			d := s.newDelegating(id)

			first, err := d.Hash(s.ctx, "same-secret")
			require.NoError(s.T(), err)
			second, err := d.Hash(s.ctx, "same-secret")
			require.NoError(s.T(), err)

			assert.NotEqual(s.T(), first, second)
			for _, stored := range []string{first, second} {
				ok, err := d.Verify(s.ctx, stored, "same-secret")
				require.NoError(s.T(), err)
				assert.True(s.T(), ok)
			}
		})
	}
}

func (s *DelegatingSuite) TestVerify_Errors_TableDriven() {
	d := s.newDelegating(StrategyBcrypt)

	tests := []struct {
		name      string
		stored    string
		expectErr error
	}{
		{name: "no prefix", stored: "$2a$04$abcdefghijklmnopqrstuv", expectErr: ErrMalformedHash},
		{name: "missing closing brace", stored: "{bcrypt$2a$04$abc", expectErr: ErrMalformedHash},
		{name: "empty id", stored: "{}secret", expectErr: ErrMalformedHash},
		{name: "empty value", stored: "", expectErr: ErrMalformedHash},
		{name: "unregistered id", stored: "{sha256}abcdef", expectErr: ErrUnknownAlgorithm},
		{name: "ids are case sensitive", stored: "{BCRYPT}$2a$04$abc", expectErr: ErrUnknownAlgorithm},
		{name: "driver rejects encoding", stored: "{bcrypt}garbage", expectErr: ErrInvalidHash},
		{name: "pbkdf2 rejects encoding", stored: "{pbkdf2}garbage", expectErr: ErrInvalidHash},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			ok, err := d.Verify(s.ctx, tc.stored, "secret")
			require.Error(s.T(), err)
			assert.ErrorIs(s.T(), err, tc.expectErr)
			assert.False(s.T(), ok)
		})
	}
}

func (s *DelegatingSuite) TestVerify_PassesRemainderUnmodified() {
	d := s.newDelegating(StrategyNoop)

	ok, err := d.Verify(s.ctx, "{noop}{weird}value}", "{weird}value}")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
}

func (s *DelegatingSuite) TestDriverErrorsPropagate() {
	driverErr := errors.New("entropy exhausted")
	builder := NewRegistryBuilder()
	require.NoError(s.T(), builder.Register("broken", stubHasher{err: driverErr}))
	d, err := NewDelegating("broken", builder.Build())
	require.NoError(s.T(), err)

	stored, err := d.Hash(s.ctx, "secret")
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, driverErr)
	assert.Empty(s.T(), stored)

	ok, err := d.Verify(s.ctx, "{broken}x", "secret")
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, driverErr)
	assert.False(s.T(), ok)
}

func (s *DelegatingSuite) TestChangingDefault_KeepsOldHashesVerifying() {
	before := s.newDelegating(StrategyPBKDF2)
	stored, err := before.Hash(s.ctx, "migrate-me")
	require.NoError(s.T(), err)

	after := s.newDelegating(StrategyArgon2)

	ok, err := after.Verify(s.ctx, stored, "migrate-me")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.True(s.T(), strings.HasPrefix(stored, "{pbkdf2}"), "stored value is never re-tagged")

	fresh, err := after.Hash(s.ctx, "migrate-me")
	require.NoError(s.T(), err)
	assert.True(s.T(), strings.HasPrefix(fresh, "{argon2}"))
}

func (s *DelegatingSuite) TestNeedsUpgrade_TableDriven() {
	d := s.newDelegating(StrategyBcrypt)
	current, err := d.Hash(s.ctx, "secret")
	require.NoError(s.T(), err)

	weaker, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(s.T(), err)
	stronger, err := NewBcrypt(bcrypt.MinCost + 1)
	require.NoError(s.T(), err)
	builder := NewRegistryBuilder()
	require.NoError(s.T(), builder.Register(StrategyBcrypt, stronger))
	raised, err := NewDelegating(StrategyBcrypt, builder.Build())
	require.NoError(s.T(), err)
	weak, err := weaker.Hash(s.ctx, "secret")
	require.NoError(s.T(), err)

	tests := []struct {
		name      string
		encoder   *Delegating
		stored    string
		expect    bool
		expectErr error
	}{
		{name: "current default and parameters", encoder: d, stored: current, expect: false},
		{name: "other registered strategy", encoder: d, stored: "{noop}secret", expect: true},
		{name: "unregistered strategy", encoder: d, stored: "{md5}abc", expect: true},
		{name: "default with outdated cost", encoder: raised, stored: Tag(StrategyBcrypt, weak), expect: true},
		{name: "malformed", encoder: d, stored: "secret", expectErr: ErrMalformedHash},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			needs, err := tc.encoder.NeedsUpgrade(tc.stored)
			if tc.expectErr != nil {
				require.Error(s.T(), err)
				assert.ErrorIs(s.T(), err, tc.expectErr)
				return
			}
			require.NoError(s.T(), err)
			assert.Equal(s.T(), tc.expect, needs)
		})
	}
}

// The registry bcrypt/pbkdf2/scrypt with bcrypt as default, checked with a
// real (non-minimum) bcrypt cost.
func (s *DelegatingSuite) TestScenario_BcryptDefault() {
	builder := NewRegistryBuilder()
	bc, err := NewBcrypt(bcrypt.DefaultCost)
	require.NoError(s.T(), err)
	pb, err := NewPBKDF2(PBKDF2Params{Iterations: 1000})
	require.NoError(s.T(), err)
	sc, err := NewScrypt(ScryptParams{CostLog2: 10})
	require.NoError(s.T(), err)
	require.NoError(s.T(), builder.Register(StrategyBcrypt, bc))
	require.NoError(s.T(), builder.Register(StrategyPBKDF2, pb))
	require.NoError(s.T(), builder.Register(StrategyScrypt, sc))

	d, err := NewDelegating(StrategyBcrypt, builder.Build())
	require.NoError(s.T(), err)

	stored, err := d.Hash(s.ctx, "pWd$1234")
	require.NoError(s.T(), err)
	require.True(s.T(), strings.HasPrefix(stored, "{bcrypt}"))

	remainder := strings.TrimPrefix(stored, "{bcrypt}")
	cost, err := bcrypt.Cost([]byte(remainder))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), bcrypt.DefaultCost, cost)

	ok, err := d.Verify(s.ctx, stored, "pWd$1234")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	ok, err = d.Verify(s.ctx, stored, "wrongpassword")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *DelegatingSuite) TestMetrics_RecordOutcomes() {
	d := s.newDelegating(StrategyNoop)
	match := Operations.WithLabelValues(string(StrategyNoop), OperationVerify, OutcomeMatch)
	mismatch := Operations.WithLabelValues(string(StrategyNoop), OperationVerify, OutcomeMismatch)
	malformed := Operations.WithLabelValues(unresolvedStrategy, OperationVerify, OutcomeMalformed)

	initialMatch := testutil.ToFloat64(match)
	initialMismatch := testutil.ToFloat64(mismatch)
	initialMalformed := testutil.ToFloat64(malformed)

	_, _ = d.Verify(s.ctx, "{noop}a", "a")
	_, _ = d.Verify(s.ctx, "{noop}a", "b")
	_, _ = d.Verify(s.ctx, "a", "a")

	assert.Equal(s.T(), initialMatch+1, testutil.ToFloat64(match))
	assert.Equal(s.T(), initialMismatch+1, testutil.ToFloat64(mismatch))
	assert.Equal(s.T(), initialMalformed+1, testutil.ToFloat64(malformed))
}

func (s *DelegatingSuite) TestMetrics_NeedsUpgradeCountsOnlyStaleValues() {
	d := s.newDelegating(StrategyPBKDF2)
	needed := Operations.WithLabelValues(string(StrategyNoop), OperationNeedsUpgrade, OutcomeNeeded)
	current := Operations.WithLabelValues(string(StrategyPBKDF2), OperationNeedsUpgrade, OutcomeNeeded)
	initial := testutil.ToFloat64(needed)
	initialCurrent := testutil.ToFloat64(current)

	needs, err := d.NeedsUpgrade("{noop}a")
	require.NoError(s.T(), err)
	assert.True(s.T(), needs)

	stored, err := d.Hash(s.ctx, "a")
	require.NoError(s.T(), err)
	needs, err = d.NeedsUpgrade(stored)
	require.NoError(s.T(), err)
	assert.False(s.T(), needs)

	assert.Equal(s.T(), initial+1, testutil.ToFloat64(needed))
	assert.Equal(s.T(), initialCurrent, testutil.ToFloat64(current))
}

func (s *DelegatingSuite) TestRegisterMetrics() {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	_, err := s.newDelegating(StrategyNoop).Hash(s.ctx, "x")
	require.NoError(s.T(), err)

	families, err := reg.Gather()
	require.NoError(s.T(), err)
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(s.T(), names["passhash_operations_total"])
	assert.True(s.T(), names["passhash_operation_duration_seconds"])
}

func TestDelegatingSuite(t *testing.T) {
	suite.Run(t, new(DelegatingSuite))
}
