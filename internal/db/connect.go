package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"cryptodb-gateway/internal/config"
	"cryptodb-gateway/internal/storage"

	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  time.Duration
	PingTimeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		BusyTimeout:  5 * time.Second,
		PingTimeout:  5 * time.Second,
	}
}

// Open opens the SQLite file at path, creating it if needed, and pings it
// before returning. The caller owns the handle and must Close it.
func Open(ctx context.Context, path string, opt Options) (*sql.DB, error) {
	dsn, err := buildDSN(path, opt)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}

	if opt.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opt.MaxOpenConns)
	}
	if opt.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opt.MaxIdleConns)
	}

	if opt.PingTimeout <= 0 {
		opt.PingTimeout = 5 * time.Second
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pingCtx, cancel := context.WithTimeout(ctx, opt.PingTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func buildDSN(path string, opt Options) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("database path is required")
	}
	if strings.ContainsRune(path, '?') {
		return "", errors.New("database path must not contain '?'")
	}
	if opt.BusyTimeout <= 0 {
		return path, nil
	}
	return path + "?_pragma=busy_timeout(" + strconv.FormatInt(opt.BusyTimeout.Milliseconds(), 10) + ")", nil
}

// TestConnection resolves the configured database under the storage
// directory, opens it, and closes it again.
func TestConnection(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	path, err := storage.ResolveDatabasePath(cfg.StorageDir, cfg.Database)
	if err != nil {
		return err
	}
	conn, err := Open(ctx, path, DefaultOptions())
	if err != nil {
		return err
	}
	return conn.Close()
}
