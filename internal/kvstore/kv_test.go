package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns one fresh instance of every KV implementation.
func stores(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := OpenSQLite(filepath.Join(dir, "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	file, err := OpenJSONFile(filepath.Join(dir, "store.json"))
	require.NoError(t, err)

	return map[string]KV{
		"sqlite": sqlite,
		"json":   file,
		"memory": NewMemory(),
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "events_alice", "[]"))
			require.NoError(t, kv.Set(ctx, "events_bob", "[1]"))
			require.NoError(t, kv.Set(ctx, "profile_alice", "{}"))

			v, ok, err := kv.Get(ctx, "events_bob")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[1]", v)

			// Overwrite
			require.NoError(t, kv.Set(ctx, "events_bob", "[2]"))
			v, _, _ = kv.Get(ctx, "events_bob")
			assert.Equal(t, "[2]", v)

			keys, err := kv.Keys(ctx, "events_")
			require.NoError(t, err)
			assert.Equal(t, []string{"events_alice", "events_bob"}, keys)

			require.NoError(t, kv.Delete(ctx, "events_alice"))
			require.NoError(t, kv.Delete(ctx, "events_alice"))
			_, ok, _ = kv.Get(ctx, "events_alice")
			assert.False(t, ok)

			keys, err = kv.Keys(ctx, "nothing_")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestSQLite_PrefixIsLiteral(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set(ctx, "timer_a", "1"))
	require.NoError(t, kv.Set(ctx, "timerXa", "2"))

	keys, err := kv.Keys(ctx, "timer_")
	require.NoError(t, err)
	assert.Equal(t, []string{"timer_a"}, keys)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "currentUser", "alice"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()
	v, ok, err := kv.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
}

func TestJSONFile_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.json")

	kv, err := OpenJSONFile(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "users", `{"alice":{}}`))

	reopened, err := OpenJSONFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"alice":{}}`, v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestJSONFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := OpenJSONFile(path)
	assert.Error(t, err)
}

func TestJSONFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	kv, err := OpenJSONFile(path)
	require.NoError(t, err)
	keys, err := kv.Keys(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	type profile struct {
		DisplayName string `json:"displayName"`
	}

	var p profile
	ok, err := GetJSON(ctx, kv, "profile_alice", &p)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, kv, "profile_alice", profile{DisplayName: "Alice"}))
	raw, _, _ := kv.Get(ctx, "profile_alice")
	assert.JSONEq(t, `{"displayName":"Alice"}`, raw)

	ok, err = GetJSON(ctx, kv, "profile_alice", &p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alice", p.DisplayName)

	require.NoError(t, kv.Set(ctx, "broken", "{"))
	ok, err = GetJSON(ctx, kv, "broken", &p)
	assert.True(t, ok)
	assert.Error(t, err)
}
