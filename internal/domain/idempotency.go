package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyRecord binds a client-supplied key to the hash of the request
// that first used it and the response that request produced. A later request
// with the same key replays ResponsePayload when its hash matches, and is
// rejected when it does not.
type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload json.RawMessage
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

func NewIdempotencyRecord(key, requestHash string, response json.RawMessage, ttl time.Duration) *IdempotencyRecord {
	now := time.Now().UTC()
	return &IdempotencyRecord{
		Key:             key,
		RequestHash:     requestHash,
		ResponsePayload: response,
		ExpiresAt:       now.Add(ttl),
		CreatedAt:       now,
	}
}

// Expired reports whether the record has passed its retention window.
// Expired records are garbage collected best-effort; expiry is not a
// correctness dependency.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
