package record_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

func (record testRecord) Identifier() uuid.UUID { return record.ID }
func (record testRecord) Created() time.Time    { return record.Timestamp }

func newRecord(label string, timestamp time.Time) testRecord {
	return testRecord{ID: uuid.New(), Label: label, Timestamp: timestamp}
}

// runStoreTests asserts the behaviours shared by every Store
// implementation: both the production flat-file store and the
// in-memory store used by tests elsewhere.
func runStoreTests(t *testing.T, newStore func(t *testing.T) record.Store[testRecord]) {
	t.Run("create then get", func(t *testing.T) {
		store := newStore(t)
		created := newRecord("one", time.Now())
		require.NoError(t, store.Create(created))

		found, ok := store.Get(created.ID)
		require.True(t, ok)
		assert.Equal(t, created.Label, found.Label)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("get of unknown id", func(t *testing.T) {
		store := newStore(t)
		_, ok := store.Get(uuid.New())
		assert.False(t, ok)
	})

	t.Run("list is ordered newest first", func(t *testing.T) {
		store := newStore(t)
		base := time.Now()

		oldest := newRecord("oldest", base.Add(-2*time.Hour))
		newest := newRecord("newest", base)
		middle := newRecord("middle", base.Add(-1*time.Hour))
		for _, r := range []testRecord{oldest, newest, middle} {
			require.NoError(t, store.Create(r))
		}

		records, err := store.List()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "newest", records[0].Label)
		assert.Equal(t, "middle", records[1].Label)
		assert.Equal(t, "oldest", records[2].Label)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		store := newStore(t)
		created := newRecord("doomed", time.Now())
		require.NoError(t, store.Create(created))
		require.NoError(t, store.Delete(created.ID))

		_, ok := store.Get(created.ID)
		assert.False(t, ok)
	})

	t.Run("delete of unknown id is a no-op", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Delete(uuid.New()))
	})
}

func Test_FlatStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) record.Store[testRecord] {
		return record.NewFlatStore[testRecord](filepath.Join(t.TempDir(), "records"))
	})
}

func Test_MemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) record.Store[testRecord] {
		return record.NewMemoryStore[testRecord]()
	})
}

func Test_FlatStore_ListOnMissingDirectory(t *testing.T) {
	store := record.NewFlatStore[testRecord](filepath.Join(t.TempDir(), "never-created"))

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_FlatStore_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	store := record.NewFlatStore[testRecord](dir)

	valid := newRecord("valid", time.Now())
	require.NoError(t, store.Create(valid))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{definitely not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not a record"), 0o644))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1, "a corrupt record must not fail the whole listing")
	assert.Equal(t, valid.ID, records[0].ID)
}
