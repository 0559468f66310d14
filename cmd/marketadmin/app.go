package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketadmin/internal/config"
	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
	"marketadmin/internal/session"
	"marketadmin/pkg/database"
	"marketadmin/pkg/logger"
	"marketadmin/pkg/net"
)

// app everything a console command needs, built from config
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	sessions *session.Manager
	gw       *gateway.RESTGateway
}

// newApp quiet keeps log output off the terminal (the TUI owns it); file logging still applies
func newApp(opts *rootOptions, quiet bool) (*app, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logCfg := cfg.Log
	logCfg.Quiet = quiet
	if opts.verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Open(database.Options{
		Driver:  cfg.Session.Driver,
		DSN:     cfg.Session.DSN,
		Verbose: opts.verbose && !quiet,
	}, &model.StoredSession{})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sessions := session.NewManager(repository.NewSessionRepository(db), log)
	client := net.NewAPIClient(net.ClientOptions{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Proxy:   cfg.API.Proxy,
		Debug:   opts.verbose && !quiet,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		sessions: sessions,
		gw:       gateway.NewRESTGateway(client, sessions, log),
	}, nil
}

// Close flushes logs and releases the session store
func (a *app) Close() {
	_ = a.log.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// restore reactivates the stored session
func (a *app) restore(ctx context.Context) (*session.Context, error) {
	sc, err := a.sessions.Restore(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return nil, errLoginRequired
	case errors.Is(err, session.ErrSessionExpired):
		return nil, errSessionExpired
	}
	return sc, err
}

var (
	errLoginRequired  = errors.New("not logged in, run `marketadmin login` first")
	errSessionExpired = errors.New("session expired, run `marketadmin login` again")
)
