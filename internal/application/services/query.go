package services

import (
	"context"
	"errors"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/cursor"
	"github.com/duespay/duespay/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryService serves reads: single payments, audit history, and the
// cursor-paginated listing.
type QueryService struct {
	paymentRepo application.PaymentRepository
	historyRepo application.HistoryRepository
}

func NewQueryService(paymentRepo application.PaymentRepository, historyRepo application.HistoryRepository) *QueryService {
	return &QueryService{
		paymentRepo: paymentRepo,
		historyRepo: historyRepo,
	}
}

func (s *QueryService) FindByID(ctx context.Context, id string) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodePaymentNotFound {
			return nil, application.NewNotFoundError(domainErr.Message)
		}
		return nil, application.NewInternalError(err)
	}

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

func (s *QueryService) History(ctx context.Context, paymentID string) ([]HistoryResponse, error) {
	if _, err := s.FindByID(ctx, paymentID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.ListByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	out := make([]HistoryResponse, 0, len(records))
	for _, h := range records {
		out = append(out, ToHistoryResponse(h))
	}
	return out, nil
}

// List returns one page ordered by creation time descending. It fetches one
// row beyond the page size; the presence of that extra row is the only thing
// that sets NextCursor.
func (s *QueryService) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := application.PaymentFilter{Limit: limit + 1}

	if q.Status != "" {
		status := domain.PaymentStatus(q.Status)
		if !domain.ValidStatus(status) {
			return nil, application.NewValidationError("unknown status " + q.Status)
		}
		filter.Status = &status
	}

	if q.Cursor != "" {
		before, err := cursor.Decode(q.Cursor)
		if err != nil {
			return nil, application.NewValidationError("malformed cursor")
		}
		filter.Before = &before
	}

	payments, err := s.paymentRepo.FindMany(ctx, filter)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	resp := &ListResponse{Data: make([]PaymentResponse, 0, limit)}

	hasMore := len(payments) > limit
	if hasMore {
		payments = payments[:limit]
	}

	for _, p := range payments {
		resp.Data = append(resp.Data, ToPaymentResponse(p))
	}

	if hasMore {
		token := cursor.Encode(payments[len(payments)-1].CreatedAt)
		resp.NextCursor = &token
	}

	return resp, nil
}
