package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/youvshr/internal/authz"
	"github.com/youvshr/internal/cache"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/router"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.AdminUser != "" && cfg.AdminPass != "" {
		if _, err := db.EnsureStaffUser(db.DB, cfg.AdminUser, cfg.AdminPass); err != nil {
			logger.Warnw("ensure admin user failed", "username", cfg.AdminUser, "error", err)
		}
	}

	enforcer, err := authz.NewService(db.DB)
	if err != nil {
		return err
	}

	redisClient := cache.New(cfg.Redis)
	defer redisClient.Close()

	opts := router.OptionsFromConfig(cfg)
	opts.Authz = enforcer
	if redisClient.Enabled() {
		// Redis 不可用时限流中间件直接放行
		if err := redisClient.Ping(cmd.Context()); err != nil {
			logger.Warnw("redis unavailable, rate limiting disabled", "error", err)
		} else {
			opts.Redis = redisClient.Redis()
			opts.RateLimit.Prefix = redisClient.Key()
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(db.DB, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "addr", cfg.ListenAddr, "mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
