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

// PutPreset validates and upserts one game preset record.
func (s *Store) PutPreset(ctx context.Context, preset domain.GamePreset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if violations := domain.ValidatePreset(preset); len(violations) > 0 {
		return storage.NewValidationError("preset", violations)
	}

	payload, err := json.Marshal(preset)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "marshal preset", err)
	}

	official := 0
	if preset.IsOfficial {
		official = 1
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO game_presets (id, name, is_official, payload, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    is_official = excluded.is_official,
    payload = excluded.payload
`, preset.ID, preset.Name, official, string(payload), toMillis(preset.CreatedAt))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "persist preset", err)
	}
	return nil
}

// GetPreset fetches one game preset record by ID.
func (s *Store) GetPreset(ctx context.Context, id string) (domain.GamePreset, error) {
	if err := ctx.Err(); err != nil {
		return domain.GamePreset{}, err
	}
	if err := s.ready(); err != nil {
		return domain.GamePreset{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.GamePreset{}, storage.ErrNotFound
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT payload FROM game_presets WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GamePreset{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.GamePreset{}, apperrors.Wrap(apperrors.CodeStorageReadFailed, "query preset", err)
	}

	var preset domain.GamePreset
	if err := json.Unmarshal([]byte(payload), &preset); err != nil {
		return domain.GamePreset{}, apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal preset", err)
	}
	return preset, nil
}

// ListPresets returns every preset, official first, then by name.
func (s *Store) ListPresets(ctx context.Context) ([]domain.GamePreset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT payload FROM game_presets ORDER BY is_official DESC, name, id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "query presets", err)
	}
	defer func() { _ = rows.Close() }()

	var presets []domain.GamePreset
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "scan preset", err)
		}
		var preset domain.GamePreset
		if err := json.Unmarshal([]byte(payload), &preset); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal preset", err)
		}
		presets = append(presets, preset)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "iterate presets", err)
	}
	return presets, nil
}

// DeletePreset removes one preset record.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return storage.ErrNotFound
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM game_presets WHERE id = ?", id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "delete preset", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "delete preset", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearPresets removes every preset record.
func (s *Store) ClearPresets(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM game_presets"); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "clear presets", err)
	}
	return nil
}
