// Package bolt provides a BoltDB-backed deck storage implementation. Each
// record collection lives in its own bucket; buckets are created lazily so a
// newer binary can open an older database file without migrating records.
package bolt

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/statdeck/statdeck/internal/deck/storage"
)

const (
	deckBucket   = "decks"
	presetBucket = "gamePresets"
	configBucket = "statblockConfigs"
	metaBucket   = "meta"

	schemaVersionKey = "schemaVersion"
	schemaVersion    = 1
)

// Store provides a BoltDB-backed deck store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return storage.ErrUnavailable
	}
	return nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{deckBucket, presetBucket, configBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(metaBucket))
		if meta.Get([]byte(schemaVersionKey)) == nil {
			var version [8]byte
			binary.BigEndian.PutUint64(version[:], schemaVersion)
			if err := meta.Put([]byte(schemaVersionKey), version[:]); err != nil {
				return fmt.Errorf("record schema version: %w", err)
			}
		}
		return nil
	})
}

// SchemaVersion reports the stored schema version.
func (s *Store) SchemaVersion() (uint64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var version uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucket))
		if meta == nil {
			return fmt.Errorf("meta bucket is missing")
		}
		raw := meta.Get([]byte(schemaVersionKey))
		if raw == nil {
			return fmt.Errorf("schema version is missing")
		}
		version = binary.BigEndian.Uint64(raw)
		return nil
	})
	return version, err
}

var _ storage.Store = (*Store)(nil)
