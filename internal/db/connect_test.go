package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cryptodb-gateway/internal/config"

	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn, err := buildDSN("databases/crypto.db", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "databases/crypto.db?_pragma=busy_timeout(5000)", dsn)

	dsn, err = buildDSN("crypto.db", Options{})
	require.NoError(t, err)
	require.Equal(t, "crypto.db", dsn)

	_, err = buildDSN("  ", DefaultOptions())
	require.Error(t, err)

	_, err = buildDSN("crypto.db?mode=ro", DefaultOptions())
	require.Error(t, err)
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crypto.db")

	conn, err := Open(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var timeout int
	require.NoError(t, conn.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	require.Equal(t, int(5*time.Second/time.Millisecond), timeout)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestOpenMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "crypto.db")

	_, err := Open(context.Background(), path, DefaultOptions())
	require.Error(t, err)
}

func TestTestConnection(t *testing.T) {
	cfg := config.Default()
	cfg.StorageDir = t.TempDir()
	cfg.Database = "crypto.db"

	require.NoError(t, TestConnection(context.Background(), cfg))

	cfg.Database = "../escape.db"
	require.Error(t, TestConnection(context.Background(), cfg))
}
