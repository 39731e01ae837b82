package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
)

// TransitionService enforces the payment status lifecycle and writes the
// paired audit record for every change.
type TransitionService struct {
	paymentRepo application.PaymentRepository
	logger      *slog.Logger
}

func NewTransitionService(paymentRepo application.PaymentRepository, logger *slog.Logger) *TransitionService {
	return &TransitionService{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// Transition moves a payment to cmd.NewStatus. The status update and its
// history record are applied together or not at all.
func (s *TransitionService) Transition(ctx context.Context, cmd TransitionCommand) (*domain.Payment, error) {
	target := domain.PaymentStatus(cmd.NewStatus)
	if !domain.ValidStatus(target) {
		return nil, application.NewValidationError("unknown status " + cmd.NewStatus)
	}

	payment, err := s.paymentRepo.FindByID(ctx, cmd.PaymentID)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodePaymentNotFound {
			return nil, application.NewNotFoundError(domainErr.Message)
		}
		return nil, application.NewInternalError(err)
	}

	history, err := payment.ApplyStatus(target, cmd.Reason)
	if err != nil {
		return nil, application.NewInvalidTransitionError(err)
	}

	if err := s.paymentRepo.ApplyTransition(ctx, payment, history); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment transitioned",
		"payment_id", payment.ID,
		"from", history.OldStatus,
		"to", history.NewStatus)

	return payment, nil
}
