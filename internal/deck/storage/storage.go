// Package storage defines the persistence contracts for deck records.
package storage

import (
	"context"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrUnavailable indicates the persistence backend is not reachable.
var ErrUnavailable = errors.New(errors.CodeStorageUnavailable, "storage is not available")

// DeckStore persists deck records. Put validates the deck first and writes
// nothing when validation fails; every write replaces the whole record.
type DeckStore interface {
	PutDeck(ctx context.Context, deck domain.Deck) error
	GetDeck(ctx context.Context, id string) (domain.Deck, error)
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	DeleteDeck(ctx context.Context, id string) error
	ClearDecks(ctx context.Context) error
}

// PresetStore persists game preset records.
type PresetStore interface {
	PutPreset(ctx context.Context, preset domain.GamePreset) error
	GetPreset(ctx context.Context, id string) (domain.GamePreset, error)
	ListPresets(ctx context.Context) ([]domain.GamePreset, error)
	DeletePreset(ctx context.Context, id string) error
	ClearPresets(ctx context.Context) error
}

// ConfigStore persists statblock config records.
type ConfigStore interface {
	PutConfig(ctx context.Context, config domain.StatblockConfig) error
	GetConfig(ctx context.Context, id string) (domain.StatblockConfig, error)
	ListConfigs(ctx context.Context) ([]domain.StatblockConfig, error)
	DeleteConfig(ctx context.Context, id string) error
	ClearConfigs(ctx context.Context) error
}

// Store bundles every collection behind one handle.
type Store interface {
	DeckStore
	PresetStore
	ConfigStore
	Close() error
}

// NewValidationError converts structural violations into a single error
// carrying every violated rule in its metadata.
func NewValidationError(subject string, violations []domain.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	metadata := make(map[string]string, len(violations))
	for _, v := range violations {
		metadata[v.Field] = v.Message
	}
	return errors.WithMetadata(
		errors.CodeValidationFailed,
		subject+" failed validation: "+violations[0].String(),
		metadata,
	)
}
