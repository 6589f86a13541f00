package backend

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/config"
	"cashbook/internal/kv"
	"cashbook/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", MemorySeedFile: "seed.json", SQLiteDBPath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, Config{Type: MemoryBackend, SQLiteDBPath: "x.db", MemorySeedFile: "seed.json"}, cfg)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.NoError(t, Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: "sheets"}.Validate())
	assert.Equal(t, []string{"sqlite", "memory"}, GetBackendTypeStrings())
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		require.NoError(t, err)
		require.NoError(t, res.Store.Set(ctx, "k", "v"))
		require.NoError(t, res.Close())

		_, _, err = res.Store.Get(ctx, "k")
		assert.ErrorIs(t, err, kv.ErrClosed)
	})

	t.Run("memory seeded", func(t *testing.T) {
		seed := filepath.Join(t.TempDir(), "seed.json")
		require.NoError(t, os.WriteFile(seed, []byte(`{"expenseMonth":"June 2023"}`), 0o644))

		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, MemorySeedFile: seed})
		require.NoError(t, err)
		v, found, err := res.Store.Get(ctx, "expenseMonth")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "June 2023", v)
	})

	t.Run("memory bad seed", func(t *testing.T) {
		seed := filepath.Join(t.TempDir(), "seed.json")
		require.NoError(t, os.WriteFile(seed, []byte(`[1,2]`), 0o644))

		_, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, MemorySeedFile: seed})
		assert.Error(t, err)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "cashbook.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
		require.NoError(t, err)
		defer res.Close()

		require.NoError(t, res.Store.Set(ctx, "k", "v"))
		v, found, err := res.Store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "v", v)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: "nope"})
		assert.Error(t, err)
	})
}

func TestCreateSQLiteBackendLogsEntryCount(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cashbook.db")

	first, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	require.NoError(t, first.Store.Set(ctx, "expenseMonth", "June 2023"))
	require.NoError(t, first.Store.Set(ctx, "expenses", "[]"))
	require.NoError(t, first.Close())

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: &buf})
	res, err := NewFactory(logger).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	defer res.Close()

	assert.Contains(t, buf.String(), "Initialized SQLite backend")
	assert.Contains(t, buf.String(), "entries=2")
}

func TestBackendResultCloseNil(t *testing.T) {
	var r *BackendResult
	assert.NoError(t, r.Close())
	assert.NoError(t, (&BackendResult{}).Close())
}
