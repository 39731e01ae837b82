package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
)

// CreateService builds and persists payments. Create is the guarded
// top-level entry point; createPayment is the raw creation step the batch
// orchestrator drives with its own internally generated keys.
type CreateService struct {
	paymentRepo application.PaymentRepository
	guard       *IdempotencyGuard
	logger      *slog.Logger
}

func NewCreateService(paymentRepo application.PaymentRepository, guard *IdempotencyGuard, logger *slog.Logger) *CreateService {
	return &CreateService{
		paymentRepo: paymentRepo,
		guard:       guard,
		logger:      logger,
	}
}

// Create runs a single guarded payment creation. The returned bool reports
// whether the response was replayed from an earlier request with the same
// key.
func (s *CreateService) Create(ctx context.Context, cmd CreatePaymentCommand, idempotencyKey string) (json.RawMessage, bool, error) {
	return s.guard.Guard(ctx, idempotencyKey, cmd, func(ctx context.Context) (any, error) {
		payment, err := s.createPayment(ctx, cmd, idempotencyKey)
		if err != nil {
			return nil, err
		}
		return ToPaymentResponse(payment), nil
	})
}

// createPayment persists a new pending payment bound to the given key.
func (s *CreateService) createPayment(ctx context.Context, cmd CreatePaymentCommand, idempotencyKey string) (*domain.Payment, error) {
	payment, err := domain.NewPayment(
		cmd.Description,
		cmd.DueDate,
		cmd.Amount,
		cmd.Currency,
		cmd.PayerName,
		cmd.PayerEmail,
		idempotencyKey,
	)
	if err != nil {
		return nil, application.NewValidationError(err.Error())
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeDuplicateIdempotencyKey {
			// Concurrent duplicate raced past the idempotency record
			// check; the unique key on payments caught it.
			return nil, application.NewIdempotencyConflictError(idempotencyKey)
		}
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment created",
		"payment_id", payment.ID,
		"amount", payment.Amount,
		"currency", payment.Currency)

	return payment, nil
}
