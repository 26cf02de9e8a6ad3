package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshuarp/passhash/internal/shared/config"
	sharedhash "github.com/joshuarp/passhash/internal/shared/hash"
)

const defaultPasswordStrategy = sharedhash.StrategyBcrypt

// builtinStrategies are registered when password.algorithms is absent.
var builtinStrategies = []sharedhash.Strategy{
	sharedhash.StrategyBcrypt,
	sharedhash.StrategyPBKDF2,
	sharedhash.StrategyScrypt,
	sharedhash.StrategyArgon2,
	sharedhash.StrategyNoop,
}

type passwordSettings struct {
	Default    sharedhash.Strategy
	Strict     bool
	Algorithms []algorithmSettings
}

// algorithmSettings binds the tag ID to a driver configured by Options.
// ID and Options.Strategy differ when a config entry sets "driver", e.g. a
// "bcrypt10" tag served by the bcrypt driver.
type algorithmSettings struct {
	ID      sharedhash.Strategy
	Options sharedhash.Options
}

func loadPasswordSettings(cfg config.ConfigProvider) passwordSettings {
	settings := passwordSettings{
		Default: sharedhash.Strategy(strings.TrimSpace(passwordString(cfg, "password.default"))),
		Strict:  passwordBool(cfg, "password.strict"),
	}
	if settings.Default == "" {
		settings.Default = defaultPasswordStrategy
	}

	ids := builtinStrategies
	if cfg.IsSet("password.algorithms") {
		ids = nil
		for key := range cfg.GetStringMap("password.algorithms") {
			ids = append(ids, sharedhash.Strategy(key))
		}
		slices.Sort(ids)
	}

	for _, id := range ids {
		prefix := fmt.Sprintf("password.algorithms.%s.", id)
		driver := sharedhash.Strategy(strings.TrimSpace(passwordString(cfg, prefix+"driver")))
		if driver == "" {
			driver = id
		}
		settings.Algorithms = append(settings.Algorithms, algorithmSettings{
			ID: id,
			Options: sharedhash.Options{
				Strategy:    driver,
				Cost:        passwordInt(cfg, prefix+"cost"),
				Iterations:  passwordInt(cfg, prefix+"iterations"),
				CostLog2:    passwordInt(cfg, prefix+"cost_log2"),
				BlockSize:   passwordInt(cfg, prefix+"block_size"),
				Parallelism: passwordInt(cfg, prefix+"parallelism"),
				Memory:      passwordInt(cfg, prefix+"memory"),
				SaltLength:  passwordInt(cfg, prefix+"salt_length"),
				KeyLength:   passwordInt(cfg, prefix+"key_length"),
			},
		})
	}

	return settings
}

// buildEncoder constructs a fresh registry and delegating encoder from the
// current configuration.
func buildEncoder(cfg config.ConfigProvider) (*sharedhash.Delegating, error) {
	settings := loadPasswordSettings(cfg)

	var opts []sharedhash.RegistryOption
	if settings.Strict {
		opts = append(opts, sharedhash.WithStrict())
	}
	builder := sharedhash.NewRegistryBuilder(opts...)

	for _, algorithm := range settings.Algorithms {
		hasher, err := sharedhash.New(algorithm.Options)
		if err != nil {
			return nil, fmt.Errorf("app: failed to init %q hasher: %w", algorithm.ID, err)
		}
		if err := builder.Register(algorithm.ID, hasher); err != nil {
			return nil, fmt.Errorf("app: failed to register %q hasher: %w", algorithm.ID, err)
		}
	}

	encoder, err := sharedhash.NewDelegating(settings.Default, builder.Build())
	if err != nil {
		return nil, fmt.Errorf("app: failed to init password encoder: %w", err)
	}
	return encoder, nil
}

func providePasswordEncoder(cfg config.ConfigProvider) (*sharedhash.Swappable, error) {
	encoder, err := buildEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return sharedhash.NewSwappable(encoder)
}

// passwordString reads key from YAML, falling back to its env form
// (password.default -> PASSWORD_DEFAULT) for .env sources.
func passwordString(cfg config.ConfigProvider, key string) string {
	if cfg.IsSet(key) {
		return cfg.GetString(key)
	}
	return cfg.GetString(passwordEnvKey(key))
}

func passwordInt(cfg config.ConfigProvider, key string) int {
	if cfg.IsSet(key) {
		return cfg.GetInt(key)
	}
	return cfg.GetInt(passwordEnvKey(key))
}

func passwordBool(cfg config.ConfigProvider, key string) bool {
	if cfg.IsSet(key) {
		return cfg.GetBool(key)
	}
	return cfg.GetBool(passwordEnvKey(key))
}

func passwordEnvKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
