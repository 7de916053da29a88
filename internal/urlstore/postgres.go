package urlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kalex-k/urlshortener/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueURLConstraint is the unique index spec.md §3 requires on url.
const uniqueURLConstraint = "idx_url_url_unique"

// PostgresStore is the Postgres-backed implementation of Store,
// grounded on the teacher's store.PostgresStore query shapes, extended
// to distinguish hash-PK from url-unique-index violations via
// pgconn.PgError.ConstraintName instead of message sniffing — resolving
// spec.md §9's open question for this backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, hash, url string) (bool, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO url (hash, url, created_at) VALUES ($1, $2, now())
	`, hash, url)
	if err == nil {
		return true, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == uniqueURLConstraint {
			return false, nil
		}

		return false, fmt.Errorf("urlstore: insert: %w", apperr.ErrConflictHash)
	}

	return false, fmt.Errorf("urlstore: insert: %w: %w", apperr.ErrIntegrity, err)
}

func (s *PostgresStore) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	var url string

	err := s.pool.QueryRow(ctx, `SELECT url FROM url WHERE hash = $1`, hash).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("urlstore: find by hash: %w", err)
	}

	return url, true, nil
}

func (s *PostgresStore) FindByURL(ctx context.Context, url string) (string, bool, error) {
	var hash string

	err := s.pool.QueryRow(ctx, `SELECT hash FROM url WHERE url = $1`, url).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("urlstore: find by url: %w", err)
	}

	return hash, true, nil
}

func (s *PostgresStore) FindOldHashes(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT hash FROM url WHERE created_at < $1 LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("urlstore: find old hashes: %w", err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("urlstore: scan old hash: %w", err)
		}

		out = append(out, h)
	}

	return out, rows.Err()
}

func (s *PostgresStore) DeleteByHashes(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	_, err := s.pool.Exec(ctx, `DELETE FROM url WHERE hash = ANY($1)`, hashes)
	if err != nil {
		return fmt.Errorf("urlstore: delete by hashes: %w", err)
	}

	return nil
}

var _ Store = (*PostgresStore)(nil)
