package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PreferenceRepository stores console preferences as key/value pairs.
type PreferenceRepository struct {
	db *DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetContext returns the value for key and whether it was present.
func (r *PreferenceRepository) GetContext(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, true, nil
}

// SetContext upserts the value for key.
func (r *PreferenceRepository) SetContext(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("preference key is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	return nil
}

// Get implements theme.Store.
func (r *PreferenceRepository) Get(key string) (string, bool, error) {
	return r.GetContext(context.Background(), key)
}

// Set implements theme.Store.
func (r *PreferenceRepository) Set(key, value string) error {
	return r.SetContext(context.Background(), key, value)
}
