package postgres

import (
	"context"
	"fmt"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
	"github.com/jackc/pgx/v5"
)

type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

var _ application.HistoryRepository = (*HistoryRepository)(nil)

func (r *HistoryRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]*domain.PaymentHistory, error) {
	query := `
		SELECT id, payment_id, old_status, new_status, reason, created_at
		FROM payment_history
		WHERE payment_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query payment history: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentHistory, error) {
		var m PaymentHistoryModel
		err := row.Scan(&m.ID, &m.PaymentID, &m.OldStatus, &m.NewStatus, &m.Reason, &m.CreatedAt)
		return toDomainHistory(m), err
	})

	if err != nil {
		return nil, fmt.Errorf("scan payment history: %w", err)
	}
	return results, nil
}
