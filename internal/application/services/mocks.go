package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
)

// MockPaymentRepository is an in-memory PaymentRepository. Behaviour can be
// overridden per test through the Fn fields.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	history  map[string][]*domain.PaymentHistory

	CreateFn          func(ctx context.Context, payment *domain.Payment) error
	FindByIDFn        func(ctx context.Context, id string) (*domain.Payment, error)
	FindManyFn        func(ctx context.Context, filter application.PaymentFilter) ([]*domain.Payment, error)
	ApplyTransitionFn func(ctx context.Context, payment *domain.Payment, history *domain.PaymentHistory) error
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
		history:  make(map[string][]*domain.PaymentHistory),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, payment)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == payment.IdempotencyKey {
			return domain.NewDuplicateIdempotencyKeyError(payment.IdempotencyKey)
		}
	}

	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.NewPaymentNotFoundError(id)
}

func (m *MockPaymentRepository) FindMany(ctx context.Context, filter application.PaymentFilter) ([]*domain.Payment, error) {
	if m.FindManyFn != nil {
		return m.FindManyFn(ctx, filter)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Payment
	for _, p := range m.payments {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Before != nil && !p.CreatedAt.Before(*filter.Before) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockPaymentRepository) ApplyTransition(ctx context.Context, payment *domain.Payment, history *domain.PaymentHistory) error {
	if m.ApplyTransitionFn != nil {
		return m.ApplyTransitionFn(ctx, payment, history)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *payment
	m.payments[payment.ID] = &cp
	m.history[payment.ID] = append(m.history[payment.ID], history)
	return nil
}

// ListByPaymentID lets the mock double as a HistoryRepository.
func (m *MockPaymentRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]*domain.PaymentHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.PaymentHistory(nil), m.history[paymentID]...), nil
}

// Count reports how many payments the mock holds.
func (m *MockPaymentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// MockIdempotencyRepository is an in-memory IdempotencyRepository.
type MockIdempotencyRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.IdempotencyRecord

	FindByKeyFn func(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	CreateFn    func(ctx context.Context, record *domain.IdempotencyRecord) error
}

func NewMockIdempotencyRepository() *MockIdempotencyRepository {
	return &MockIdempotencyRepository{
		records: make(map[string]*domain.IdempotencyRecord),
	}
}

func (m *MockIdempotencyRepository) FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[key]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *MockIdempotencyRepository) Create(ctx context.Context, record *domain.IdempotencyRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, record)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.records[record.Key] = &cp
	return nil
}

func (m *MockIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for key, r := range m.records {
		if limit > 0 && deleted >= int64(limit) {
			break
		}
		if r.ExpiresAt.Before(before) {
			delete(m.records, key)
			deleted++
		}
	}
	return deleted, nil
}
