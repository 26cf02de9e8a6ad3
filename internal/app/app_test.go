package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"

	servicemocks "github.com/joshuarp/passhash/internal/mock/services"
	configmocks "github.com/joshuarp/passhash/internal/mock/shared/config"
	"github.com/joshuarp/passhash/internal/services"
	"github.com/joshuarp/passhash/internal/shared/config"
	sharedhash "github.com/joshuarp/passhash/internal/shared/hash"
)

const fastConfig = `
logging:
  level: error
password:
  default: %s
  algorithms:
    bcrypt:
      cost: 4
    pbkdf2:
      iterations: 1000
    scrypt:
      cost_log2: 10
    argon2:
      memory: 1024
      iterations: 1
      parallelism: 1
    legacy:
      driver: noop
`

func writeConfig(t *testing.T, defaultID string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Replace(fastConfig, "%s", defaultID, 1)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func loadConfig(t *testing.T, defaultID string) config.ConfigProvider {
	t.Helper()
	cfg, err := config.Init(config.Options{YAMLPath: writeConfig(t, defaultID)})
	require.NoError(t, err)
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type AppHelpersSuite struct {
	suite.Suite

	cfg *configmocks.ConfigProvider
}

func (s *AppHelpersSuite) SetupTest() {
	s.cfg = configmocks.NewConfigProvider(s.T())
}

func (s *AppHelpersSuite) TestPasswordString_TableDriven() {
	tests := []struct {
		name      string
		setupMock func()
		expect    string
	}{
		{
			name: "prefer yaml key",
			setupMock: func() {
				s.cfg.EXPECT().IsSet("password.default").Return(true)
				s.cfg.EXPECT().GetString("password.default").Return("scrypt")
			},
			expect: "scrypt",
		},
		{
			name: "fallback to env key",
			setupMock: func() {
				s.cfg.EXPECT().IsSet("password.default").Return(false)
				s.cfg.EXPECT().GetString("PASSWORD_DEFAULT").Return("pbkdf2")
			},
			expect: "pbkdf2",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMock()

			assert.Equal(s.T(), tc.expect, passwordString(s.cfg, "password.default"))
		})
	}
}

func (s *AppHelpersSuite) TestPasswordInt_TableDriven() {
	tests := []struct {
		name      string
		setupMock func()
		expect    int
	}{
		{
			name: "prefer yaml int",
			setupMock: func() {
				s.cfg.EXPECT().IsSet("password.algorithms.bcrypt.cost").Return(true)
				s.cfg.EXPECT().GetInt("password.algorithms.bcrypt.cost").Return(13)
			},
			expect: 13,
		},
		{
			name: "fallback to env int",
			setupMock: func() {
				s.cfg.EXPECT().IsSet("password.algorithms.bcrypt.cost").Return(false)
				s.cfg.EXPECT().GetInt("PASSWORD_ALGORITHMS_BCRYPT_COST").Return(11)
			},
			expect: 11,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMock()

			assert.Equal(s.T(), tc.expect, passwordInt(s.cfg, "password.algorithms.bcrypt.cost"))
		})
	}
}

func (s *AppHelpersSuite) TestPasswordBool_FallbackToEnv() {
	s.cfg.EXPECT().IsSet("password.strict").Return(false)
	s.cfg.EXPECT().GetBool("PASSWORD_STRICT").Return(true)

	assert.True(s.T(), passwordBool(s.cfg, "password.strict"))
}

func TestAppHelpersSuite(t *testing.T) {
	suite.Run(t, new(AppHelpersSuite))
}

type EncoderSuite struct {
	suite.Suite
}

func (s *EncoderSuite) TestLoadPasswordSettings_FromYAML() {
	settings := loadPasswordSettings(loadConfig(s.T(), "argon2"))

	assert.Equal(s.T(), sharedhash.StrategyArgon2, settings.Default)
	assert.False(s.T(), settings.Strict)

	byID := make(map[sharedhash.Strategy]algorithmSettings, len(settings.Algorithms))
	for _, algorithm := range settings.Algorithms {
		byID[algorithm.ID] = algorithm
	}
	require.Len(s.T(), byID, 5)
	assert.Equal(s.T(), 4, byID[sharedhash.StrategyBcrypt].Options.Cost)
	assert.Equal(s.T(), 10, byID[sharedhash.StrategyScrypt].Options.CostLog2)
	assert.Equal(s.T(), sharedhash.StrategyNoop, byID["legacy"].Options.Strategy)
}

func (s *EncoderSuite) TestLoadPasswordSettings_Defaults() {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	require.NoError(s.T(), os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600))
	cfg, err := config.Init(config.Options{YAMLPath: path})
	require.NoError(s.T(), err)

	settings := loadPasswordSettings(cfg)

	assert.Equal(s.T(), sharedhash.StrategyBcrypt, settings.Default)
	ids := make([]sharedhash.Strategy, 0, len(settings.Algorithms))
	for _, algorithm := range settings.Algorithms {
		ids = append(ids, algorithm.ID)
	}
	assert.ElementsMatch(s.T(), builtinStrategies, ids)
}

func (s *EncoderSuite) TestBuildEncoder_TableDriven() {
	tests := []struct {
		name      string
		defaultID string
		assertion func(*sharedhash.Delegating, error)
	}{
		{
			name:      "bcrypt default",
			defaultID: "bcrypt",
			assertion: func(encoder *sharedhash.Delegating, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), sharedhash.StrategyBcrypt, encoder.DefaultStrategy())
				assert.True(s.T(), encoder.Registry().Has("legacy"))
			},
		},
		{
			name:      "custom id served by another driver",
			defaultID: "legacy",
			assertion: func(encoder *sharedhash.Delegating, err error) {
				require.NoError(s.T(), err)
				stored, herr := encoder.Hash(context.Background(), "secret")
				require.NoError(s.T(), herr)
				assert.Equal(s.T(), "{legacy}secret", stored)
			},
		},
		{
			name:      "unknown default",
			defaultID: "sha512",
			assertion: func(encoder *sharedhash.Delegating, err error) {
				require.Error(s.T(), err)
				assert.ErrorIs(s.T(), err, sharedhash.ErrUnknownAlgorithm)
				assert.Nil(s.T(), encoder)
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.assertion(buildEncoder(loadConfig(s.T(), tc.defaultID)))
		})
	}
}

func (s *EncoderSuite) TestBuildEncoder_InvalidAlgorithmOptions() {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	content := "password:\n  default: bcrypt\n  algorithms:\n    bcrypt:\n      cost: 99\n"
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0o600))
	cfg, err := config.Init(config.Options{YAMLPath: path})
	require.NoError(s.T(), err)

	encoder, err := buildEncoder(cfg)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, sharedhash.ErrInvalidOption)
	assert.Nil(s.T(), encoder)
}

func (s *EncoderSuite) TestReloadEncoder_SwapsAndKeepsOldHashesVerifying() {
	initial, err := buildEncoder(loadConfig(s.T(), "pbkdf2"))
	require.NoError(s.T(), err)
	swappable, err := sharedhash.NewSwappable(initial)
	require.NoError(s.T(), err)

	stored, err := swappable.Hash(context.Background(), "secret")
	require.NoError(s.T(), err)

	reloadEncoder(loadConfig(s.T(), "scrypt"), swappable, discardLogger())
	assert.Equal(s.T(), sharedhash.StrategyScrypt, swappable.Load().DefaultStrategy())

	ok, err := swappable.Verify(context.Background(), stored, "secret")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	reloadEncoder(loadConfig(s.T(), "missing"), swappable, discardLogger())
	assert.Equal(s.T(), sharedhash.StrategyScrypt, swappable.Load().DefaultStrategy(), "rejected reload keeps current encoder")
}

func TestEncoderSuite(t *testing.T) {
	suite.Run(t, new(EncoderSuite))
}

func TestNew_WiresCredentialService(t *testing.T) {
	repository := servicemocks.NewCredentialRepository(t)

	var service *services.CredentialService
	var encoder sharedhash.Encoder
	application := New(writeConfig(t, "argon2"),
		CredentialModule(repository),
		fx.Populate(&service, &encoder),
	)
	require.NoError(t, application.Err())
	require.NotNil(t, service)

	stored, err := encoder.Hash(context.Background(), "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "{argon2}$argon2id$v=19$"))
}

func TestNew_FailsOnMissingConfig(t *testing.T) {
	var encoder sharedhash.Encoder
	application := New(filepath.Join(t.TempDir(), "absent.yaml"), fx.Populate(&encoder))
	require.Error(t, application.Err())
}

func TestWatchModule_StartStop(t *testing.T) {
	path := writeConfig(t, "bcrypt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("metrics:\n  address: 127.0.0.1:0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var encoder *sharedhash.Swappable
	application := New(path, WatchModule(), fx.Populate(&encoder))
	require.NoError(t, application.Err())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, application.Start(ctx))
	assert.Equal(t, sharedhash.StrategyBcrypt, encoder.Load().DefaultStrategy())
	require.NoError(t, application.Stop(ctx))
}
