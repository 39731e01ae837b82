package application

import (
	"context"
	"time"

	"github.com/duespay/duespay/internal/domain"
)

// PaymentFilter narrows FindMany. Before is the exclusive upper bound on
// created_at used by cursor pagination; results are ordered created_at DESC.
type PaymentFilter struct {
	Status *domain.PaymentStatus
	Before *time.Time
	Limit  int
}

// PaymentRepository is the port for durable payment storage.
type PaymentRepository interface {
	// Create persists a new payment. A unique violation on the
	// idempotency key column surfaces as a DUPLICATE_IDEMPOTENCY_KEY
	// domain error.
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindMany(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)

	// ApplyTransition persists the updated payment status together with
	// its audit record. Both writes land in one transaction or neither.
	ApplyTransition(ctx context.Context, payment *domain.Payment, history *domain.PaymentHistory) error
}

// HistoryRepository is the port for reading the audit trail.
type HistoryRepository interface {
	ListByPaymentID(ctx context.Context, paymentID string) ([]*domain.PaymentHistory, error)
}

// IdempotencyRepository is the port for idempotency record storage.
type IdempotencyRepository interface {
	// FindByKey returns (nil, nil) when no record exists for key.
	FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	Create(ctx context.Context, record *domain.IdempotencyRecord) error

	// DeleteExpired removes up to limit records whose retention window
	// passed before the given time, returning the number deleted.
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int64, error)
}
