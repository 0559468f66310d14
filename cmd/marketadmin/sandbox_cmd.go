package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketadmin/internal/config"
	"marketadmin/internal/middleware"
	"marketadmin/internal/repository"
	"marketadmin/internal/router"
	"marketadmin/internal/task"
	"marketadmin/pkg/database"
	"marketadmin/pkg/logger"
)

// newSandboxCmd serves a local marketplace API for demos and development
func newSandboxCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local marketplace API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Sandbox.Addr = addr
			}

			logCfg := cfg.Log
			if opts.verbose {
				logCfg.Level = "debug"
			}
			log, err := logger.New(logCfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if !logCfg.Development {
				gin.SetMode(gin.ReleaseMode)
			}

			db, err := database.Open(database.Options{
				Driver:  cfg.Sandbox.Driver,
				DSN:     cfg.Sandbox.DSN,
				Verbose: opts.verbose,
			})
			if err != nil {
				return err
			}

			password := cfg.Sandbox.AdminPassword
			if password == "" {
				password = uuid.NewString()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine, err := router.NewSandbox(ctx, db, log, router.SandboxConfig{
				JWT:           &middleware.JWTConfig{SecretKey: cfg.Sandbox.JWTSecret},
				LoginCooldown: cfg.Sandbox.LoginCooldown,
				AdminUsername: cfg.Sandbox.AdminUsername,
				AdminPassword: password,
				AdminBusiness: cfg.Sandbox.AdminBusiness,
			})
			if err != nil {
				return err
			}
			if cfg.Sandbox.AdminPassword == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "admin password (only used when the account is first created): %s\n", password)
			}

			if cfg.Sandbox.DigestSchedule != "off" {
				digest := task.NewApprovalDigestTask(repository.NewProductRepository(db), log, cfg.Sandbox.DigestSchedule)
				if err := digest.Start(); err != nil {
					return err
				}
				defer digest.Stop()
			}

			return serve(ctx, log, &http.Server{Addr: cfg.Sandbox.Addr, Handler: engine})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides sandbox.addr")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, log *zap.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("sandbox listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("sandbox server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down sandbox")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sandbox shutdown: %w", err)
	}
	log.Info("sandbox stopped")
	return nil
}
