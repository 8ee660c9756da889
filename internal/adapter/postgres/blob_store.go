package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

// blobStore keeps each serialized history list as a single row keyed by name,
// matching the key-value shape the session layer expects.
type blobStore struct {
	db DB
}

func NewBlobStore(db DB) interfaces.Storage {
	return &blobStore{db: db}
}

// InitSchema creates the backing table if it does not exist yet.
func InitSchema(ctx context.Context, db DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS session_blobs (
			key        TEXT PRIMARY KEY,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create session_blobs table: %w", err)
	}
	return nil
}

func (s *blobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT data FROM session_blobs WHERE key = $1`

	var data []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, true, nil
}

func (s *blobStore) Set(ctx context.Context, key string, blob []byte) error {
	query := `
		INSERT INTO session_blobs (key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET data = $2, updated_at = $3
	`
	if _, err := s.db.Exec(ctx, query, key, blob, time.Now()); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

func (s *blobStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM session_blobs WHERE key = $1`

	if _, err := s.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	return nil
}
