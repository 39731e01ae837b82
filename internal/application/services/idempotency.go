package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/config"
	"github.com/duespay/duespay/internal/domain"
	"github.com/google/uuid"
)

// IdempotencyGuard deduplicates mutating operations by client-supplied key
// and a hash of the request payload. The first successful execution of a key
// has its response cached for the retention window; identical retries replay
// that response without re-executing, and reuse of a key with a different
// payload is rejected.
type IdempotencyGuard struct {
	repo   application.IdempotencyRepository
	ttl    time.Duration
	logger *slog.Logger
}

func NewIdempotencyGuard(repo application.IdempotencyRepository, cfg config.IdempotencyConfig, logger *slog.Logger) *IdempotencyGuard {
	return &IdempotencyGuard{
		repo:   repo,
		ttl:    cfg.TTL,
		logger: logger,
	}
}

// Guard executes op at most once for the given key and payload. It returns
// the serialized response and whether it was replayed from an earlier
// execution.
//
// The existence check and the record insert are not atomic with each other;
// the unique constraint on payments.idempotency_key is the authoritative
// backstop against concurrent duplicates racing past the check.
func (g *IdempotencyGuard) Guard(ctx context.Context, key string, payload any, op func(ctx context.Context) (any, error)) (json.RawMessage, bool, error) {
	if _, err := uuid.Parse(key); err != nil {
		return nil, false, application.NewValidationError("idempotency key must be a valid UUID")
	}

	requestHash, err := ComputeRequestHash(payload)
	if err != nil {
		return nil, false, application.NewInternalError(err)
	}

	record, err := g.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, false, application.NewInternalError(err)
	}

	// A record past its retention window is treated as absent whether or
	// not the janitor has swept it yet.
	if record != nil && !record.Expired(time.Now().UTC()) {
		if record.RequestHash != requestHash {
			return nil, false, application.NewIdempotencyConflictError(key)
		}
		return record.ResponsePayload, true, nil
	}

	result, err := op(ctx)
	if err != nil {
		return nil, false, err
	}

	response, err := json.Marshal(result)
	if err != nil {
		return nil, false, application.NewInternalError(err)
	}

	g.store(ctx, key, requestHash, response)

	return response, false, nil
}

// store persists the response cache best-effort. A failure here must not
// fail the response already produced; it leaves a window where a retry with
// the same key executes twice, closed by the payment-level unique key.
func (g *IdempotencyGuard) store(ctx context.Context, key, requestHash string, response json.RawMessage) {
	record := domain.NewIdempotencyRecord(key, requestHash, response, g.ttl)
	if err := g.repo.Create(ctx, record); err != nil {
		g.logger.Error("failed to persist idempotency record",
			"key", key,
			"error", err)
	}
}
