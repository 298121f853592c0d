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

// PutConfig validates and upserts one statblock config record.
func (s *Store) PutConfig(ctx context.Context, config domain.StatblockConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if violations := domain.ValidateConfig(config); len(violations) > 0 {
		return storage.NewValidationError("statblock config", violations)
	}

	payload, err := json.Marshal(config)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "marshal config", err)
	}

	official := 0
	if config.IsOfficial {
		official = 1
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO statblock_configs (id, name, is_official, payload, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    is_official = excluded.is_official,
    payload = excluded.payload
`, config.ID, config.Name, official, string(payload), toMillis(config.CreatedAt))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "persist config", err)
	}
	return nil
}

// GetConfig fetches one statblock config record by ID.
func (s *Store) GetConfig(ctx context.Context, id string) (domain.StatblockConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.StatblockConfig{}, err
	}
	if err := s.ready(); err != nil {
		return domain.StatblockConfig{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.StatblockConfig{}, storage.ErrNotFound
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT payload FROM statblock_configs WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatblockConfig{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.StatblockConfig{}, apperrors.Wrap(apperrors.CodeStorageReadFailed, "query config", err)
	}

	var config domain.StatblockConfig
	if err := json.Unmarshal([]byte(payload), &config); err != nil {
		return domain.StatblockConfig{}, apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal config", err)
	}
	return config, nil
}

// ListConfigs returns every statblock config, official first, then by name.
func (s *Store) ListConfigs(ctx context.Context) ([]domain.StatblockConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT payload FROM statblock_configs ORDER BY is_official DESC, name, id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "query configs", err)
	}
	defer func() { _ = rows.Close() }()

	var configs []domain.StatblockConfig
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "scan config", err)
		}
		var config domain.StatblockConfig
		if err := json.Unmarshal([]byte(payload), &config); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "unmarshal config", err)
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageReadFailed, "iterate configs", err)
	}
	return configs, nil
}

// DeleteConfig removes one statblock config record.
func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return storage.ErrNotFound
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM statblock_configs WHERE id = ?", id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "delete config", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "delete config", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearConfigs removes every statblock config record.
func (s *Store) ClearConfigs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM statblock_configs"); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageWriteFailed, "clear configs", err)
	}
	return nil
}
