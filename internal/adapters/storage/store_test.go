package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-smile/internal/ports"
)

// storeFactories builds every backend so the same contract runs against each.
func storeFactories(t *testing.T) map[string]func() ports.KeyValueStore {
	t.Helper()
	return map[string]func() ports.KeyValueStore{
		"sqlite memory": func() ports.KeyValueStore {
			s, err := NewSQLiteMemory()
			require.NoError(t, err)
			return s
		},
		"sqlite file": func() ports.KeyValueStore {
			s, err := NewSQLite(filepath.Join(t.TempDir(), "smile.db"))
			require.NoError(t, err)
			return s
		},
		"afero memory": func() ports.KeyValueStore {
			return NewMemory()
		},
		"afero os": func() ports.KeyValueStore {
			s, err := NewFile(filepath.Join(t.TempDir(), "store"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestKeyValueStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer func() { _ = store.Close() }()

			t.Run("first run is empty", func(t *testing.T) {
				got, err := store.Get(ctx, ports.AllKeys()...)
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("set and get", func(t *testing.T) {
				err := store.Set(ctx, map[string][]byte{
					ports.KeyQuotes: []byte(`[{"id":1}]`),
					ports.KeyAPIKey: []byte(`"secret"`),
				})
				require.NoError(t, err)

				got, err := store.Get(ctx, ports.KeyQuotes, ports.KeyAPIKey, ports.KeyAppSettings)
				require.NoError(t, err)
				assert.Equal(t, `[{"id":1}]`, string(got[ports.KeyQuotes]))
				assert.Equal(t, `"secret"`, string(got[ports.KeyAPIKey]))
				assert.NotContains(t, got, ports.KeyAppSettings)
			})

			t.Run("last write wins", func(t *testing.T) {
				require.NoError(t, store.Set(ctx, map[string][]byte{ports.KeyQuotes: []byte(`[]`)}))

				got, err := store.Get(ctx, ports.KeyQuotes)
				require.NoError(t, err)
				assert.Equal(t, `[]`, string(got[ports.KeyQuotes]))
			})

			t.Run("remove", func(t *testing.T) {
				require.NoError(t, store.Remove(ctx, ports.KeyAPIKey, ports.KeySelectedModel))

				got, err := store.Get(ctx, ports.KeyAPIKey, ports.KeyQuotes)
				require.NoError(t, err)
				assert.NotContains(t, got, ports.KeyAPIKey)
				assert.Contains(t, got, ports.KeyQuotes)
			})
		})
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "smile.db")

	store, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, map[string][]byte{ports.KeyTimerState: []byte(`{"day":"2026-10-15"}`)}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, ports.KeyTimerState)
	require.NoError(t, err)
	assert.Equal(t, `{"day":"2026-10-15"}`, string(got[ports.KeyTimerState]))
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()

	store, err := NewFileOn(fsys, "/data/store")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, map[string][]byte{ports.KeySmileEvents: []byte(`[]`)}))

	exists, err := afero.Exists(fsys, "/data/store/focus-smile-smile-events.json")
	require.NoError(t, err)
	assert.True(t, exists)

	leftover, err := afero.Exists(fsys, "/data/store/focus-smile-smile-events.json.tmp")
	require.NoError(t, err)
	assert.False(t, leftover)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendSQLite, BackendFile, BackendMemory} {
		location := filepath.Join(dir, backend)
		if backend == BackendSQLite {
			location += ".db"
		}
		store, err := Open(backend, location)
		require.NoError(t, err, backend)
		assert.NoError(t, store.Close())
	}

	_, err := Open("redis", "")
	assert.Error(t, err)
}
