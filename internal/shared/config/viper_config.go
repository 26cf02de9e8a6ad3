package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var _ ConfigProvider = (*viperConfig)(nil)

type viperConfig struct {
	v         *viper.Viper
	source    string
	file      string
	callbacks []func()
	mu        sync.RWMutex
	watching  sync.Once
	done      chan struct{}
}

// Init loads configuration from a YAML file (primary) or .env file (exclusive fallback).
// Returns a ConfigProvider interface. Returns error if neither file exists or parsing fails.
func Init(opts Options) (ConfigProvider, error) {
	v := viper.New()
	cfg := &viperConfig{
		v:    v,
		done: make(chan struct{}),
	}

	yamlExists := fileExists(opts.YAMLPath)
	envExists := fileExists(opts.EnvPath)

	switch {
	case yamlExists:
		v.SetConfigFile(opts.YAMLPath)
		v.SetConfigType("yaml")
		cfg.source = "yaml"
		cfg.file = opts.YAMLPath
	case envExists:
		v.SetConfigFile(opts.EnvPath)
		v.SetConfigType("env")
		cfg.source = "env"
		cfg.file = opts.EnvPath
	default:
		return nil, fmt.Errorf("config: no config file found (tried %q and %q)", opts.YAMLPath, opts.EnvPath)
	}

	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read %s file: %w", cfg.source, err)
	}

	return cfg, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (c *viperConfig) GetString(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetString(key)
}

func (c *viperConfig) GetInt(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetInt(key)
}

func (c *viperConfig) GetBool(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetBool(key)
}

func (c *viperConfig) GetStringMap(key string) map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetStringMap(key)
}

func (c *viperConfig) IsSet(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.IsSet(key)
}

func (c *viperConfig) Source() string { return c.source }

func (c *viperConfig) File() string { return c.file }

func (c *viperConfig) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
}

// WatchChanges is a no-op for .env sources and after the first call.
func (c *viperConfig) WatchChanges() {
	if c.source != "yaml" {
		return
	}

	c.watching.Do(func() {
		c.v.OnConfigChange(func(e fsnotify.Event) {
			if c.stopped() {
				return
			}
			c.mu.Lock()
			if err := c.v.ReadInConfig(); err != nil {
				c.mu.Unlock()
				return
			}
			cbs := make([]func(), len(c.callbacks))
			copy(cbs, c.callbacks)
			c.mu.Unlock()

			for _, fn := range cbs {
				fn()
			}
		})
		c.v.WatchConfig()
	})
}

func (c *viperConfig) StopWatching() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *viperConfig) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
