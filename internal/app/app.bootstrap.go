package app

import (
	"fmt"
	"strings"

	"github.com/joshuarp/passhash/internal/shared/config"
	sharedhash "github.com/joshuarp/passhash/internal/shared/hash"
	sharedlog "github.com/joshuarp/passhash/internal/shared/log"
	"go.uber.org/fx"
)

const envPrefix = "PASSHASH"

type configPathIn struct {
	fx.In
	Path string `name:"config_path"`
}

// New builds the application. configPath selects a single config file; when
// empty the default load order is used.
func New(configPath string, modules ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.NopLogger,
		CoreModule(configPath),
	}
	opts = append(opts, modules...)
	return fx.New(opts...)
}

func CoreModule(configPath string) fx.Option {
	return fx.Module("core",
		fx.Supply(
			fx.Annotate(
				strings.TrimSpace(configPath),
				fx.ResultTags(`name:"config_path"`),
			),
		),
		fx.Provide(
			provideConfig,
			sharedlog.NewJSONLogger,
			provideMetricsRegistry,
			providePasswordEncoder,
			func(s *sharedhash.Swappable) sharedhash.Encoder { return s },
		),
	)
}

// WatchModule keeps the encoder in sync with the config file and serves
// metrics when metrics.address is set.
func WatchModule() fx.Option {
	return fx.Module("watch",
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(in configPathIn) (config.ConfigProvider, error) {
	if in.Path != "" {
		provider, err := config.Init(config.Options{YAMLPath: in.Path, EnvPrefix: envPrefix})
		if err != nil {
			return nil, fmt.Errorf("app: failed to load %s: %w", in.Path, err)
		}
		return provider, nil
	}

	loadOrder := []config.Options{
		{
			YAMLPath:  "config.yaml",
			EnvPath:   ".env",
			EnvPrefix: envPrefix,
		},
		{
			YAMLPath:  "config.yaml.example",
			EnvPath:   ".env.example",
			EnvPrefix: envPrefix,
		},
	}

	var lastErr error
	for _, opts := range loadOrder {
		provider, err := config.Init(opts)
		if err == nil {
			return provider, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
