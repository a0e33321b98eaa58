package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetSetting returns a persisted setting value, or "" when the key is absent
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAPIKey returns the stored API key for a provider, or "" when none is saved
func (db *DB) GetAPIKey(ctx context.Context, provider string) (string, error) {
	var key string
	err := db.pool.QueryRow(ctx,
		`SELECT api_key FROM api_keys WHERE provider = $1`, provider,
	).Scan(&key)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get API key for %s: %w", provider, err)
	}
	return key, nil
}

// SaveAPIKey upserts the API key for a provider
func (db *DB) SaveAPIKey(ctx context.Context, provider, key string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO api_keys (provider, api_key) VALUES ($1, $2)
		 ON CONFLICT (provider) DO UPDATE SET api_key = $2, updated_at = NOW()`,
		provider, key,
	)
	if err != nil {
		return fmt.Errorf("failed to save API key for %s: %w", provider, err)
	}
	return nil
}
