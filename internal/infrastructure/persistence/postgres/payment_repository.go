package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, description, due_date, amount, currency,
	       payer_name, payer_email, status, checkout_ref, idempotency_key,
	       created_at, updated_at`

type PaymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

var _ application.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
            id, description, due_date, amount, currency,
            payer_name, payer_email, status, checkout_ref, idempotency_key,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	m := toPaymentModel(payment)
	_, err := r.db.Pool.Exec(ctx, query,
		m.ID,
		m.Description,
		m.DueDate,
		m.Amount,
		m.Currency,
		m.PayerName,
		m.PayerEmail,
		m.Status,
		m.CheckoutRef,
		m.IdempotencyKey,
		m.CreatedAt,
		m.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicateIdempotencyKeyError(m.IdempotencyKey)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanPayment(row, id)
}

// FindMany lists payments newest first. The Before bound is exclusive, which
// is what makes cursor pages non-overlapping.
func (r *PaymentRepository) FindMany(ctx context.Context, filter application.PaymentFilter) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`

	var (
		conditions []string
		args       []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Before != nil {
		args = append(args, *filter.Before)
		conditions = append(conditions, "created_at < $"+strconv.Itoa(len(args)))
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	args = append(args, filter.Limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Payment, error) {
		var m PaymentModel
		err := row.Scan(
			&m.ID, &m.Description, &m.DueDate, &m.Amount, &m.Currency,
			&m.PayerName, &m.PayerEmail, &m.Status, &m.CheckoutRef, &m.IdempotencyKey,
			&m.CreatedAt, &m.UpdatedAt,
		)
		return toDomainPayment(m), err
	})

	if err != nil {
		return nil, fmt.Errorf("scan payments: %w", err)
	}
	return results, nil
}

// ApplyTransition persists a status change and its audit record in one
// transaction. The status update is a compare-and-set against the old
// status, so a concurrent transition of the same payment loses cleanly.
func (r *PaymentRepository) ApplyTransition(ctx context.Context, payment *domain.Payment, history *domain.PaymentHistory) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE payments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	tag, err := tx.Exec(ctx, updateQuery,
		string(payment.Status),
		payment.UpdatedAt,
		payment.ID,
		string(history.OldStatus),
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewInvalidTransitionError(history.OldStatus, payment.Status)
	}

	historyQuery := `
		INSERT INTO payment_history (id, payment_id, old_status, new_status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, historyQuery,
		history.ID,
		history.PaymentID,
		string(history.OldStatus),
		string(history.NewStatus),
		history.Reason,
		history.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append payment history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	return nil
}

// scanPayment converts a database row into a domain Payment.
func scanPayment(row pgx.Row, id string) (*domain.Payment, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.Description, &m.DueDate, &m.Amount, &m.Currency,
		&m.PayerName, &m.PayerEmail, &m.Status, &m.CheckoutRef, &m.IdempotencyKey,
		&m.CreatedAt, &m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewPaymentNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return toDomainPayment(m), nil
}
