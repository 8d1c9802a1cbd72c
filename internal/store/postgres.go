package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresStore keeps every collection in a single entity_records JSONB
// table, mirroring the schemaless contract of the hosted entity store the
// application was originally written against. Exact-match filtering uses
// JSONB containment; partial updates use the || merge operator.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresStore wraps an existing pool as a Store.
func NewPostgresStore(pool *pgxpool.Pool, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		log:  log.With().Str("component", "postgres_store").Logger(),
	}
}

func (s *PostgresStore) List(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	query := `SELECT id, data, created_at, updated_at FROM entity_records WHERE collection = $1`
	args := []any{collection}

	if len(filter) > 0 {
		probe, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		query += ` AND data @> $2::jsonb`
		args = append(args, string(probe))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrUnavailable, collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Data, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrUnavailable, collection, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrUnavailable, collection, err)
	}
	return records, nil
}

func (s *PostgresStore) Create(ctx context.Context, collection string, data json.RawMessage) (Record, error) {
	var r Record
	r.Data = data
	err := s.pool.QueryRow(ctx,
		`INSERT INTO entity_records (collection, data) VALUES ($1, $2::jsonb)
		 RETURNING id, created_at, updated_at`,
		collection, string(data)).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("%w: create %s: %v", ErrUnavailable, collection, err)
	}
	return r, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, partial json.RawMessage) (Record, error) {
	var r Record
	r.ID = id
	err := s.pool.QueryRow(ctx,
		`UPDATE entity_records
		 SET data = data || $3::jsonb, updated_at = NOW()
		 WHERE collection = $1 AND id = $2
		 RETURNING data, created_at, updated_at`,
		collection, id, string(partial)).Scan(&r.Data, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: update %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return r, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM entity_records WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
