package hashstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the Postgres-backed implementation of Store,
// grounded on the teacher's store.PostgresStore (same pgxpool.Pool
// handle, same error-unwrapping style) and on original_source's
// HashRepository for the SQL shapes (nextval/generate_series for
// NextSequence, "FOR UPDATE SKIP LOCKED" for ClaimAvailable).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres-backed hash store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) NextSequence(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT nextval('unique_number_seq') FROM generate_series(1, $1)`, n)
	if err != nil {
		return nil, fmt.Errorf("hashstore: next sequence: %w", err)
	}
	defer rows.Close()

	out := make([]int64, 0, n)

	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("hashstore: scan sequence value: %w", err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hashstore: next sequence: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) InsertIfAbsent(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, h := range hashes {
		batch.Queue(`INSERT INTO hash (hash, available) VALUES ($1, true)
			ON CONFLICT (hash) DO NOTHING`, h)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range hashes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("hashstore: insert if absent: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) ClaimAvailable(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		UPDATE hash
		SET available = false
		WHERE hash IN (
			SELECT hash FROM hash
			WHERE COALESCE(available, true) = true
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING hash
	`, n)
	if err != nil {
		return nil, fmt.Errorf("hashstore: claim available: %w", err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("hashstore: scan claimed hash: %w", err)
		}

		out = append(out, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hashstore: claim available: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) MarkUsed(ctx context.Context, hash string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hash (hash, available) VALUES ($1, false)
		ON CONFLICT (hash) DO UPDATE SET available = false
	`, hash)
	if err != nil {
		return fmt.Errorf("hashstore: mark used: %w", err)
	}

	return nil
}

func (s *PostgresStore) ReleaseAvailable(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, h := range hashes {
		batch.Queue(`
			INSERT INTO hash (hash, available) VALUES ($1, true)
			ON CONFLICT (hash) DO UPDATE SET available = true
		`, h)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range hashes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("hashstore: release available: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	_, err := s.pool.Exec(ctx, `DELETE FROM hash WHERE hash = ANY($1)`, hashes)
	if err != nil {
		return fmt.Errorf("hashstore: delete: %w", err)
	}

	return nil
}

var _ Store = (*PostgresStore)(nil)
