package postgres

import (
	"encoding/json"
	"time"
)

type PaymentModel struct {
	ID             string
	Description    string
	DueDate        time.Time
	Amount         int64
	Currency       string
	PayerName      string
	PayerEmail     string
	Status         string
	CheckoutRef    string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PaymentHistoryModel struct {
	ID        string
	PaymentID string
	OldStatus string
	NewStatus string
	Reason    *string
	CreatedAt time.Time
}

// IdempotencyRecordModel rows enforce at-most-once semantics via the unique
// constraint on key.
type IdempotencyRecordModel struct {
	Key             string
	RequestHash     string
	ResponsePayload json.RawMessage
	ExpiresAt       time.Time
	CreatedAt       time.Time
}
