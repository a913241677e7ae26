package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/interfaces/services"
	"github.com/ochairo/extenscan/internal/external-adapters/sqlite"
)

func TestOpenCache_PrunesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	// Create the schema, then seed one stale and one fresh row directly
	seed, err := sqlite.Open(path, 24)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, `INSERT INTO cache (key, value, stored_at) VALUES (?, ?, ?), (?, ?, ?)`,
		"npm_version_stale", "1.0.0", time.Now().Add(-48*time.Hour).Unix(),
		"npm_version_fresh", "2.0.0", time.Now().Unix())
	require.NoError(t, err)

	a := &app{cachePath: path, config: entities.DefaultConfig(), logger: &interfaces.NoOpLogger{}}
	cache, err := a.openCache(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	var keys []string
	rows, err := db.QueryContext(ctx, `SELECT key FROM cache ORDER BY key`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		require.NoError(t, rows.Scan(&key))
		keys = append(keys, key)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"npm_version_fresh"}, keys)
}

func TestRun_FlushesLogsWhenCommandFails(t *testing.T) {
	a := &app{}
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	code := run(a, []string{"--config", configPath, "scan", "-f", "xml"})

	assert.Equal(t, services.ExitError, code)
	require.NotNil(t, a.config, "setup should have run before the command failed")
	assert.Nil(t, a.sync, "logger should have been flushed")
}

func TestFlushLogs_BeforeSetup(t *testing.T) {
	a := &app{}
	assert.NotPanics(t, a.flushLogs)
}
