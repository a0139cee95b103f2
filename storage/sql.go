package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const createSlotsTable = `
CREATE TABLE IF NOT EXISTS kv_slots (
	slot_key TEXT PRIMARY KEY,
	slot_value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLStore keeps slots as rows of the kv_slots table. Queries are written with ? placeholders
// and rebound for the connected driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore connects with the given driver and creates the slots table if needed.
func NewSQLStore(driver, dataSourceName string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		// a second connection to ":memory:" would see a different database
		db.SetMaxOpenConns(1)
	}

	s, err := NewSQLStoreFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStoreFromDB wraps an existing connection.
func NewSQLStoreFromDB(db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.Exec(createSlotsTable); err != nil {
		return nil, fmt.Errorf("failed to create kv_slots table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT slot_value FROM kv_slots WHERE slot_key = ?"), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO kv_slots (slot_key, slot_value, updated_at) VALUES (?, ?, ?) ON CONFLICT (slot_key) DO UPDATE SET slot_value = excluded.slot_value, updated_at = excluded.updated_at"),
		key,
		string(value),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM kv_slots WHERE slot_key = ?"), key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
