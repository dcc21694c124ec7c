// Package record provides the persistence layer for Snatch's small
// metadata collections (styles, prompts). Records are stored one JSON
// file per record in a flat directory; writes are always whole-file so
// concurrent requests can never corrupt a neighbouring record.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("RecordStore")

type (
	// Model is the contract every persisted record satisfies. The
	// identifier is generated at creation and immutable from then on;
	// the creation time decides listing order (newest first).
	Model interface {
		Identifier() uuid.UUID
		Created() time.Time
	}

	// Store is the injected persistence interface for one collection.
	// Production uses the flat-file implementation; tests typically use
	// the in-memory one.
	Store[T Model] interface {
		List() ([]T, error)
		Get(id uuid.UUID) (T, bool)
		Create(record T) error
		Delete(id uuid.UUID) error
	}

	flatStore[T Model] struct {
		dir string
	}
)

// NewFlatStore returns a Store persisting each record as '<id>.json'
// inside dir. The directory is created on first write rather than here
// so constructing a store has no side effects.
func NewFlatStore[T Model](dir string) Store[T] {
	return &flatStore[T]{dir: dir}
}

// List reads every record file in the collection directory and returns
// the parsed records ordered by creation time, descending. A file that
// fails to parse is logged and skipped; one corrupt record must never
// take the whole listing down with it.
func (store *flatStore[T]) List() ([]T, error) {
	entries, err := os.ReadDir(store.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}

		return nil, fmt.Errorf("record directory '%s' could not be listed: %w", store.dir, err)
	}

	records := make([]T, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(store.dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Emit(logger.WARNING, "Skipping unreadable record file %s: %v\n", path, err)
			continue
		}

		var record T
		if err := json.Unmarshal(content, &record); err != nil {
			log.Emit(logger.WARNING, "Skipping malformed record file %s: %v\n", path, err)
			continue
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i int, j int) bool {
		return records[i].Created().After(records[j].Created())
	})

	return records, nil
}

func (store *flatStore[T]) Get(id uuid.UUID) (T, bool) {
	var record T
	content, err := os.ReadFile(store.pathFor(id))
	if err != nil {
		return record, false
	}

	if err := json.Unmarshal(content, &record); err != nil {
		log.Emit(logger.WARNING, "Record %s exists but is malformed: %v\n", id, err)
		return record, false
	}

	return record, true
}

func (store *flatStore[T]) Create(record T) error {
	if err := os.MkdirAll(store.dir, os.ModeDir|os.ModePerm); err != nil {
		return fmt.Errorf("record directory '%s' could not be created: %w", store.dir, err)
	}

	content, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("record %s could not be encoded: %w", record.Identifier(), err)
	}

	if err := os.WriteFile(store.pathFor(record.Identifier()), content, 0o644); err != nil {
		return fmt.Errorf("record %s could not be written: %w", record.Identifier(), err)
	}

	return nil
}

// Delete removes the record file for the given id. Deleting a record
// which doesn't exist is a no-op, not an error.
func (store *flatStore[T]) Delete(id uuid.UUID) error {
	if err := os.Remove(store.pathFor(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("record %s could not be deleted: %w", id, err)
	}

	return nil
}

func (store *flatStore[T]) pathFor(id uuid.UUID) string {
	return filepath.Join(store.dir, id.String()+".json")
}

type memoryStore[T Model] struct {
	mutex   sync.RWMutex
	records map[uuid.UUID]T
}

// NewMemoryStore returns a Store backed by a map. It exists for tests
// and mirrors the flat-file stores semantics (newest-first listing,
// idempotent delete).
func NewMemoryStore[T Model]() Store[T] {
	return &memoryStore[T]{records: make(map[uuid.UUID]T)}
}

func (store *memoryStore[T]) List() ([]T, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	records := make([]T, 0, len(store.records))
	for _, record := range store.records {
		records = append(records, record)
	}

	sort.Slice(records, func(i int, j int) bool {
		return records[i].Created().After(records[j].Created())
	})

	return records, nil
}

func (store *memoryStore[T]) Get(id uuid.UUID) (T, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	record, ok := store.records[id]
	return record, ok
}

func (store *memoryStore[T]) Create(record T) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.records[record.Identifier()] = record
	return nil
}

func (store *memoryStore[T]) Delete(id uuid.UUID) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	delete(store.records, id)
	return nil
}
