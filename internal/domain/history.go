package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentHistory is the audit record of a single status change. Every
// transition produces exactly one row, written atomically with the status
// update. Records are immutable and never deleted.
type PaymentHistory struct {
	ID        string
	PaymentID string
	OldStatus PaymentStatus
	NewStatus PaymentStatus
	Reason    *string
	CreatedAt time.Time
}

func NewPaymentHistory(paymentID string, old, new PaymentStatus, reason string) *PaymentHistory {
	h := &PaymentHistory{
		ID:        uuid.New().String(),
		PaymentID: paymentID,
		OldStatus: old,
		NewStatus: new,
		CreatedAt: time.Now().UTC(),
	}
	if reason != "" {
		h.Reason = &reason
	}
	return h
}
