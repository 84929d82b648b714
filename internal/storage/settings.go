package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budgetview/internal/service"
)

// LoadSettings decodes the document stored under key into target. A missing
// row, data that no longer parses, or a stored version that differs from
// defaults resets the row to defaults, which are then copied into target.
func (s *SQLiteStorage) LoadSettings(ctx context.Context, key string, defaults, target service.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if err := validateSettings(defaults, "defaults"); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: target", ErrNilParameter)
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE key = ?`, key).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		slog.Debug("No stored settings, using defaults", "key", key)
		return s.reset(ctx, key, defaults, target)
	case err != nil:
		return fmt.Errorf("failed to load settings %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), target); err != nil {
		slog.Warn("Stored settings are unreadable, resetting", "key", key, "error", err)
		return s.reset(ctx, key, defaults, target)
	}

	if target.SettingsVersion() != defaults.SettingsVersion() {
		slog.Info("Stored settings are outdated, resetting",
			"key", key,
			"stored_version", target.SettingsVersion(),
			"version", defaults.SettingsVersion())
		return s.reset(ctx, key, defaults, target)
	}

	return nil
}

func (s *SQLiteStorage) reset(ctx context.Context, key string, defaults, target service.Settings) error {
	data, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to encode default settings: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to copy default settings: %w", err)
	}
	return s.upsert(ctx, key, defaults.SettingsVersion(), data)
}

func (s *SQLiteStorage) upsert(ctx context.Context, key string, version int, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, version, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, key, version, string(data))
	if err != nil {
		return fmt.Errorf("failed to save settings %q: %w", key, err)
	}
	return nil
}

// SaveSettings stores settings under key. Saving over a document of another
// version fails with ErrVersionMismatch.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, key string, settings service.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if err := validateSettings(settings, "settings"); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored int
	err = tx.QueryRowContext(ctx, `SELECT version FROM settings WHERE key = ?`, key).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to read settings version: %w", err)
	case stored != settings.SettingsVersion():
		return fmt.Errorf("%w: %q is stored at version %d, got %d", ErrVersionMismatch, key, stored, settings.SettingsVersion())
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, version, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, key, settings.SettingsVersion(), string(data))
	if err != nil {
		return fmt.Errorf("failed to save settings %q: %w", key, err)
	}

	return tx.Commit()
}

// ResetSettings removes the document stored under key so the next load
// starts from defaults.
func (s *SQLiteStorage) ResetSettings(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to reset settings %q: %w", key, err)
	}
	return nil
}

// ListSettings returns every stored document ordered by key.
func (s *SQLiteStorage) ListSettings(ctx context.Context) ([]service.SettingsRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, version, data FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []service.SettingsRecord
	for rows.Next() {
		var rec service.SettingsRecord
		if err := rows.Scan(&rec.Key, &rec.Version, &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to scan settings: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

var _ service.SettingsStore = (*SQLiteStorage)(nil)
