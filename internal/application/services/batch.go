package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/config"
	"github.com/duespay/duespay/internal/domain"
	"github.com/google/uuid"
)

// MaxBatchSize caps how many creation requests one batch may carry.
const MaxBatchSize = 100

// BatchService fans a list of creation requests out to a bounded pool of
// workers, retrying failed items with linear backoff and aggregating
// per-item outcomes. Item failures never fail the batch as a whole.
type BatchService struct {
	creator     *CreateService
	guard       *IdempotencyGuard
	workers     int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

func NewBatchService(creator *CreateService, guard *IdempotencyGuard, cfg config.BatchConfig, logger *slog.Logger) *BatchService {
	return &BatchService{
		creator:     creator,
		guard:       guard,
		workers:     cfg.Workers,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		logger:      logger,
	}
}

// Process runs a guarded batch. The aggregated batch response, not each
// item, is the payload cached against the caller's idempotency key.
func (s *BatchService) Process(ctx context.Context, cmd BatchCommand, idempotencyKey string) (json.RawMessage, bool, error) {
	if len(cmd.Items) > MaxBatchSize {
		return nil, false, application.NewValidationError(
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(cmd.Items), MaxBatchSize))
	}

	return s.guard.Guard(ctx, idempotencyKey, cmd, func(ctx context.Context) (any, error) {
		return s.run(ctx, cmd.Items), nil
	})
}

// run executes items in consecutive chunks of at most `workers` entries.
// All items of a chunk run concurrently; the next chunk starts only once
// every item of the current one has settled, so peak in-flight work never
// exceeds the worker count.
func (s *BatchService) run(ctx context.Context, items []CreatePaymentCommand) *BatchResponse {
	results := make([]BatchItemResult, len(items))

	for start := 0; start < len(items); start += s.workers {
		end := min(start+s.workers, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, item CreatePaymentCommand) {
				defer wg.Done()
				results[idx] = s.processItem(ctx, idx, item)
			}(i, items[i])
		}
		wg.Wait()
	}

	resp := &BatchResponse{Results: results}
	for _, r := range results {
		if r.Error != nil {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}

	s.logger.Info("batch settled",
		"items", len(items),
		"succeeded", resp.Succeeded,
		"failed", resp.Failed)

	return resp
}

// processItem drives one slot through the guarded creation path, retrying
// transient failures up to maxAttempts with baseDelay × attempt between
// tries. The item's idempotency key is generated once and reused across its
// retries, so a retry after a half-applied attempt replays rather than
// duplicates.
func (s *BatchService) processItem(ctx context.Context, idx int, item CreatePaymentCommand) BatchItemResult {
	itemKey := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		raw, _, err := s.creator.Create(ctx, item, itemKey)
		if err == nil {
			var created PaymentResponse
			if err := json.Unmarshal(raw, &created); err != nil {
				lastErr = application.NewInternalError(err)
				break
			}
			return BatchItemResult{
				Index:     idx,
				PaymentID: created.ID,
				Status:    created.Status,
			}
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}

		if attempt < s.maxAttempts {
			s.backoff(ctx, attempt)
		}
	}

	s.logger.Warn("batch item failed",
		"index", idx,
		"error", lastErr)

	return BatchItemResult{
		Index: idx,
		Error: toItemError(lastErr),
	}
}

func (s *BatchService) backoff(ctx context.Context, attempt int) {
	delay := s.baseDelay * time.Duration(attempt)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// isRetryable treats business-rule rejections as permanent and everything
// else, store hiccups included, as transient.
func isRetryable(err error) bool {
	if svcErr, ok := application.IsServiceError(err); ok {
		switch svcErr.Code {
		case application.ErrCodeValidation,
			application.ErrCodeIdempotencyConflict,
			application.ErrCodeNotFound,
			application.ErrCodeInvalidTransition:
			return false
		}
		return true
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return false
	}

	return true
}

func toItemError(err error) *ItemError {
	if svcErr, ok := application.IsServiceError(err); ok {
		return &ItemError{Code: svcErr.Code, Message: svcErr.Message}
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return &ItemError{Code: domainErr.Code, Message: domainErr.Message}
	}

	return &ItemError{Code: application.ErrCodeInternal, Message: "an internal error occurred"}
}
