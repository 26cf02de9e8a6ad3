package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/joshuarp/passhash/internal/shared/config"
	sharedhash "github.com/joshuarp/passhash/internal/shared/hash"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func registerLifecycle(
	lifecycle fx.Lifecycle,
	cfg config.ConfigProvider,
	logger *slog.Logger,
	encoder *sharedhash.Swappable,
	registry *prometheus.Registry,
) {
	var server *http.Server
	var serveErrCh chan error

	lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			cfg.OnChange(func() {
				reloadEncoder(cfg, encoder, logger)
			})
			cfg.WatchChanges()

			current := encoder.Load()
			logger.Info("password encoder ready",
				"default", string(current.DefaultStrategy()),
				"strategies", current.Registry().Strategies(),
				"config", cfg.File(),
			)

			address := cfg.GetString("metrics.address")
			if address == "" {
				return nil
			}

			listener, err := net.Listen("tcp", address)
			if err != nil {
				return fmt.Errorf("app: failed to bind metrics address %s: %w", address, err)
			}

			server = newMetricsServer(address, registry)
			serveErrCh = make(chan error, 1)
			go func() {
				err := server.Serve(listener)
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped unexpectedly", "error", err)
				}
				serveErrCh <- err
			}()

			logger.Info("metrics server started", "address", listener.Addr().String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cfg.StopWatching()

			if server == nil {
				return nil
			}

			var shutdownErrors []error
			if err := server.Shutdown(ctx); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}

			select {
			case err := <-serveErrCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					shutdownErrors = append(shutdownErrors, err)
				}
			case <-ctx.Done():
				shutdownErrors = append(shutdownErrors, ctx.Err())
			}

			if len(shutdownErrors) > 0 {
				return errors.Join(shutdownErrors...)
			}

			logger.Info("metrics server shutdown completed")
			return nil
		},
	})
}

// reloadEncoder swaps in an encoder built from the current config. On error
// the running encoder stays in place.
func reloadEncoder(cfg config.ConfigProvider, encoder *sharedhash.Swappable, logger *slog.Logger) {
	next, err := buildEncoder(cfg)
	if err != nil {
		logger.Error("password encoder reload rejected", "error", err)
		return
	}

	previous := encoder.Store(next)
	logger.Info("password encoder reloaded",
		"previous_default", string(previous.DefaultStrategy()),
		"default", string(next.DefaultStrategy()),
		"strategies", next.Registry().Strategies(),
	)
}
