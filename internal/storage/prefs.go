package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
)

// Preference keys. Each holds a JSON-encoded array.
const (
	keyFavoriteCities  = "favoriteCities"
	keyFavoriteCryptos = "favoriteCryptos"
)

// PrefStore handles durable key-value persistence of user preferences
// in SQLite. Preferences are read once at startup and written on every
// toggle.
type PrefStore struct {
	db *sql.DB
}

// NewPrefStore opens (or creates) the preferences database with WAL
// mode enabled.
func NewPrefStore(dbPath string) (*PrefStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}

	return &PrefStore{db: db}, nil
}

// Set saves a key-value pair.
func (s *PrefStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
		key, value, time.Now().UnixMicro(),
	)
	return err
}

// Get retrieves a value. Returns "" if the key is absent.
func (s *PrefStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SaveFavoriteCities persists the full favorite city id set.
func (s *PrefStore) SaveFavoriteCities(ctx context.Context, ids []domain.CityID) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal favorite cities: %w", err)
	}
	return s.Set(ctx, keyFavoriteCities, string(data))
}

// SaveFavoriteCryptos persists the full favorite crypto id set.
func (s *PrefStore) SaveFavoriteCryptos(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal favorite cryptos: %w", err)
	}
	return s.Set(ctx, keyFavoriteCryptos, string(data))
}

// LoadFavorites reads both favorite sets. Missing keys yield empty
// sets, not errors.
func (s *PrefStore) LoadFavorites(ctx context.Context) ([]domain.CityID, []string, error) {
	var cities []domain.CityID
	var cryptos []string

	if raw, err := s.Get(ctx, keyFavoriteCities); err != nil {
		return nil, nil, fmt.Errorf("failed to load favorite cities: %w", err)
	} else if raw != "" {
		if err := json.Unmarshal([]byte(raw), &cities); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal favorite cities: %w", err)
		}
	}

	if raw, err := s.Get(ctx, keyFavoriteCryptos); err != nil {
		return nil, nil, fmt.Errorf("failed to load favorite cryptos: %w", err)
	} else if raw != "" {
		if err := json.Unmarshal([]byte(raw), &cryptos); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal favorite cryptos: %w", err)
		}
	}

	return cities, cryptos, nil
}

// Close closes the database connection.
func (s *PrefStore) Close() error {
	return s.db.Close()
}
