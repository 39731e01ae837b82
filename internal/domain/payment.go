// Package domain defines the entities and business rules for payment collection.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusPaid     PaymentStatus = "paid"
	StatusReversed PaymentStatus = "reversed"
)

// ValidStatus reports whether s is one of the known payment statuses.
func ValidStatus(s PaymentStatus) bool {
	switch s {
	case StatusPending, StatusPaid, StatusReversed:
		return true
	default:
		return false
	}
}

// SupportedCurrencies is the closed set of currencies a payment may be
// denominated in. Amounts are always integer minor units.
var SupportedCurrencies = map[string]bool{
	"NGN": true,
	"USD": true,
	"GBP": true,
	"EUR": true,
}

// Payment represents a single collectible payment request.
type Payment struct {
	ID          string
	Description string
	DueDate     time.Time
	Amount      int64
	Currency    string
	PayerName   string
	PayerEmail  string

	Status      PaymentStatus
	CheckoutRef string

	// IdempotencyKey is the key the creating request carried. It is unique
	// across all payments and is the backstop against concurrent duplicate
	// submissions racing past the idempotency record check.
	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment builds a pending payment with a fresh id and checkout reference.
func NewPayment(description string, dueDate time.Time, amount int64, currency, payerName, payerEmail, idempotencyKey string) (*Payment, error) {
	if amount <= 0 {
		return nil, NewInvalidAmountError(amount)
	}
	if !SupportedCurrencies[currency] {
		return nil, NewUnsupportedCurrencyError(currency)
	}

	now := time.Now().UTC()
	return &Payment{
		ID:             uuid.New().String(),
		Description:    description,
		DueDate:        dueDate,
		Amount:         amount,
		Currency:       currency,
		PayerName:      payerName,
		PayerEmail:     payerEmail,
		Status:         StatusPending,
		CheckoutRef:    newCheckoutRef(),
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CanTransitionTo validates whether the payment can move from its current
// status to the target status. It returns nil if the transition is allowed.
//
// Valid transitions are:
//   - pending → paid
//   - paid → reversed
//
// reversed is terminal. Self-transitions are rejected.
func (p *Payment) CanTransitionTo(target PaymentStatus) error {
	switch p.Status {
	case StatusPending:
		if target == StatusPaid {
			return nil
		}
	case StatusPaid:
		if target == StatusReversed {
			return nil
		}
	}
	return NewInvalidTransitionError(p.Status, target)
}

// ApplyStatus moves the payment to target and returns the audit record for
// the change. The caller persists both as one unit.
func (p *Payment) ApplyStatus(target PaymentStatus, reason string) (*PaymentHistory, error) {
	if err := p.CanTransitionTo(target); err != nil {
		return nil, err
	}

	old := p.Status
	p.Status = target
	p.UpdatedAt = time.Now().UTC()

	return NewPaymentHistory(p.ID, old, target, reason), nil
}

func (p *Payment) IsTerminal() bool {
	return p.Status == StatusReversed
}

func newCheckoutRef() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "chk_" + hex.EncodeToString(b)
}
