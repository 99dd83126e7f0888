package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/99minutos/auth-service/internal/api"
	"github.com/99minutos/auth-service/internal/core/auth"
	"github.com/99minutos/auth-service/internal/core/service"
	"github.com/99minutos/auth-service/internal/infrastructure/config"
	"github.com/99minutos/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on PORT using the user store selected by
STORE_DRIVER (postgres, mongo or redis).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, autoMigrate)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "apply pending postgres migrations before serving")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, err := config.Load(ctx, nil)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "authd",
	})

	store, err := openStore(ctx, cfg, autoMigrate, log)
	if err != nil {
		return oops.Code("STORE_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
	}
	defer store.close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	authService := service.NewAuthService(store.repo, auth.NewBcryptHasher(cfg.Auth.HashCost), tokens, log)

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Verifier:    tokens,
		TokenHeader: cfg.Auth.TokenHeader,
		RoutePrefix: cfg.RoutePrefix,
		Readiness:   store.ready,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Dur("token_ttl", tokens.TTL()).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	log.Info().Msg("server stopped")
	return nil
}
