package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/storage"
	apperrors "github.com/statdeck/statdeck/internal/platform/errors"
)

func putRecord(ctx context.Context, s *Store, bucket, id string, record any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeStorageWriteFailed, "record id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "marshal record", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create %s bucket: %w", bucket, err)
		}
		return b.Put([]byte(id), payload)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "persist record", err)
	}
	return nil
}

func getRecord[T any](ctx context.Context, s *Store, bucket, id string) (T, error) {
	var record T
	if err := ctx.Err(); err != nil {
		return record, err
	}
	if err := s.ready(); err != nil {
		return record, err
	}
	if strings.TrimSpace(id) == "" {
		return record, storage.ErrNotFound
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return storage.ErrNotFound
		}
		payload := b.Get([]byte(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			return apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal record", err)
		}
		return nil
	})
	return record, err
}

func listRecords[T any](ctx context.Context, s *Store, bucket string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	var records []T
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, payload []byte) error {
			var record T
			if err := json.Unmarshal(payload, &record); err != nil {
				return apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal record", err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func deleteRecord(ctx context.Context, s *Store, bucket, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return storage.ErrNotFound
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil || b.Get([]byte(id)) == nil {
			return storage.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func clearBucket(ctx context.Context, s *Store, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucket)) == nil {
			return nil
		}
		if err := tx.DeleteBucket([]byte(bucket)); err != nil {
			return fmt.Errorf("delete %s bucket: %w", bucket, err)
		}
		if _, err := tx.CreateBucket([]byte(bucket)); err != nil {
			return fmt.Errorf("recreate %s bucket: %w", bucket, err)
		}
		return nil
	})
}

// PutDeck validates and persists one deck record.
func (s *Store) PutDeck(ctx context.Context, deck domain.Deck) error {
	if violations := domain.ValidateDeck(deck, domain.DeckRules{AllowEmpty: true}); len(violations) > 0 {
		return storage.NewValidationError("deck", violations)
	}
	return putRecord(ctx, s, deckBucket, deck.ID, deck)
}

// GetDeck fetches a deck record by ID.
func (s *Store) GetDeck(ctx context.Context, id string) (domain.Deck, error) {
	return getRecord[domain.Deck](ctx, s, deckBucket, id)
}

// ListDecks returns every deck record.
func (s *Store) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	return listRecords[domain.Deck](ctx, s, deckBucket)
}

// DeleteDeck removes a deck record.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, deckBucket, id)
}

// ClearDecks removes every deck record.
func (s *Store) ClearDecks(ctx context.Context) error {
	return clearBucket(ctx, s, deckBucket)
}

// PutPreset validates and persists one game preset record.
func (s *Store) PutPreset(ctx context.Context, preset domain.GamePreset) error {
	if violations := domain.ValidatePreset(preset); len(violations) > 0 {
		return storage.NewValidationError("preset", violations)
	}
	return putRecord(ctx, s, presetBucket, preset.ID, preset)
}

// GetPreset fetches a game preset record by ID.
func (s *Store) GetPreset(ctx context.Context, id string) (domain.GamePreset, error) {
	return getRecord[domain.GamePreset](ctx, s, presetBucket, id)
}

// ListPresets returns every game preset record.
func (s *Store) ListPresets(ctx context.Context) ([]domain.GamePreset, error) {
	return listRecords[domain.GamePreset](ctx, s, presetBucket)
}

// DeletePreset removes a game preset record.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, presetBucket, id)
}

// ClearPresets removes every game preset record.
func (s *Store) ClearPresets(ctx context.Context) error {
	return clearBucket(ctx, s, presetBucket)
}

// PutConfig validates and persists one statblock config record.
func (s *Store) PutConfig(ctx context.Context, config domain.StatblockConfig) error {
	if violations := domain.ValidateConfig(config); len(violations) > 0 {
		return storage.NewValidationError("statblock config", violations)
	}
	return putRecord(ctx, s, configBucket, config.ID, config)
}

// GetConfig fetches a statblock config record by ID.
func (s *Store) GetConfig(ctx context.Context, id string) (domain.StatblockConfig, error) {
	return getRecord[domain.StatblockConfig](ctx, s, configBucket, id)
}

// ListConfigs returns every statblock config record.
func (s *Store) ListConfigs(ctx context.Context) ([]domain.StatblockConfig, error) {
	return listRecords[domain.StatblockConfig](ctx, s, configBucket)
}

// DeleteConfig removes a statblock config record.
func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, configBucket, id)
}

// ClearConfigs removes every statblock config record.
func (s *Store) ClearConfigs(ctx context.Context) error {
	return clearBucket(ctx, s, configBucket)
}
