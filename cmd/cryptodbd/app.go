package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cryptodb-gateway/internal/api"
	"cryptodb-gateway/internal/config"
	"cryptodb-gateway/internal/logger"
	"cryptodb-gateway/internal/storage"

	"go.uber.org/zap"
)

type serverApp struct {
	cfg    config.Config
	logSvc logger.LoggerService
	srv    *http.Server
	errCh  chan error
}

func (a *serverApp) Start() error {
	bootstrapLog := logger.NewStderr()

	cfg, err := config.Resolve()
	if err != nil {
		bootstrapLog.Error("invalid configuration", err)
		return err
	}
	a.cfg = cfg

	logSvc, err := logger.New(cfg)
	if err != nil {
		bootstrapLog.Error("logger init failed; using stderr", err)
		logSvc = bootstrapLog
	}
	a.logSvc = logSvc

	if err := storage.EnsureDir(cfg.StorageDir); err != nil {
		logSvc.Error("storage directory unavailable", err, zap.String("dir", cfg.StorageDir))
		a.Stop(context.Background())
		return fmt.Errorf("storage dir %s: %w", cfg.StorageDir, err)
	}

	srv, err := api.NewServer(cfg, api.ServerDeps{Logger: logSvc})
	if err != nil {
		logSvc.Error("config validation error", err)
		a.Stop(context.Background())
		return err
	}
	a.srv = srv

	a.errCh = make(chan error, 1)
	go func() {
		a.errCh <- srv.ListenAndServe()
	}()

	logSvc.Success("cryptodbd listening",
		zap.String("addr", srv.Addr),
		zap.String("storageDir", cfg.StorageDir),
		zap.String("database", cfg.Database),
		zap.Bool("metrics", cfg.Metrics),
	)
	return nil
}

func (a *serverApp) Stop(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil && a.logSvc != nil {
			a.logSvc.Error("shutdown error", err)
		}
	}
	if a.logSvc != nil {
		_ = a.logSvc.Close()
	}
}

func (a *serverApp) Errors() <-chan error {
	return a.errCh
}

func (a *serverApp) Logger() logger.LoggerService {
	return a.logSvc
}

func isServeError(err error) bool {
	return err != nil && !errors.Is(err, http.ErrServerClosed)
}
