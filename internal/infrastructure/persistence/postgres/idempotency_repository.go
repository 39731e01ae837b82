package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	db *DB
}

func NewIdempotencyRepository(db *DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

var _ application.IdempotencyRepository = (*IdempotencyRepository)(nil)

// FindByKey returns (nil, nil) when no record exists for the key.
func (r *IdempotencyRepository) FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	query := `
        SELECT key, request_hash, response_payload, expires_at, created_at
        FROM idempotency_records
        WHERE key = $1
    `

	var m IdempotencyRecordModel
	err := r.db.Pool.QueryRow(ctx, query, key).Scan(
		&m.Key,
		&m.RequestHash,
		&m.ResponsePayload,
		&m.ExpiresAt,
		&m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	return toDomainIdempotencyRecord(m), nil
}

func (r *IdempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_records (key, request_hash, response_payload, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		record.Key,
		record.RequestHash,
		record.ResponsePayload,
		record.ExpiresAt,
		record.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			// A concurrent request with the same key stored first. The
			// cached response is equivalent; nothing left to do.
			return nil
		}
		return fmt.Errorf("failed to store idempotency record: %w", err)
	}

	return nil
}

// DeleteExpired sweeps records whose retention window passed. Called by the
// janitor worker; correctness never depends on it running.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	query := `
		DELETE FROM idempotency_records
		WHERE key IN (
			SELECT key FROM idempotency_records
			WHERE expires_at < $1
			LIMIT $2
		)
	`

	tag, err := r.db.Pool.Exec(ctx, query, before, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}
	return tag.RowsAffected(), nil
}
