package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/storage"
	apperrors "github.com/statdeck/statdeck/internal/platform/errors"
)

// PutDeck validates and upserts one deck record. Validation failure writes
// nothing; the upsert replaces the whole record in a single statement.
func (s *Store) PutDeck(ctx context.Context, deck domain.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if violations := domain.ValidateDeck(deck, domain.DeckRules{AllowEmpty: true}); len(violations) > 0 {
		return storage.NewValidationError("deck", violations)
	}

	payload, err := json.Marshal(deck)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "marshal deck", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO decks (id, name, payload, created_at, last_edited)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    payload = excluded.payload,
    last_edited = excluded.last_edited
`, deck.ID, deck.Meta.Name, string(payload), toMillis(deck.Meta.CreatedAt), toMillis(deck.Meta.LastEdited))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "persist deck", err)
	}
	return nil
}

// GetDeck fetches one deck record by ID.
func (s *Store) GetDeck(ctx context.Context, id string) (domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return domain.Deck{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Deck{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Deck{}, storage.ErrNotFound
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT payload FROM decks WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Deck{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Deck{}, apperrors.Wrap(apperrors.CodeStorageReadFailed, "query deck", err)
	}

	var deck domain.Deck
	if err := json.Unmarshal([]byte(payload), &deck); err != nil {
		return domain.Deck{}, apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal deck", err)
	}
	return deck, nil
}

// ListDecks returns every deck record ordered by last edit, newest first.
func (s *Store) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT payload FROM decks ORDER BY last_edited DESC, id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "query decks", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []domain.Deck
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "scan deck", err)
		}
		var deck domain.Deck
		if err := json.Unmarshal([]byte(payload), &deck); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal deck", err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "iterate decks", err)
	}
	return decks, nil
}

// DeleteDeck removes one deck record. Deleting a missing deck reports
// ErrNotFound.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return storage.ErrNotFound
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM decks WHERE id = ?", id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "delete deck", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "delete deck", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearDecks removes every deck record.
func (s *Store) ClearDecks(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM decks"); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "clear decks", err)
	}
	return nil
}
