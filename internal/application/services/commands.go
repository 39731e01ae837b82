package services

import "time"

// CreatePaymentCommand is the typed payload for a single payment creation.
// It is validated at the transport boundary before reaching the services.
type CreatePaymentCommand struct {
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	PayerName   string    `json:"payer_name"`
	PayerEmail  string    `json:"payer_email"`
}

// BatchCommand carries the ordered list of creation requests for one batch.
type BatchCommand struct {
	Items []CreatePaymentCommand `json:"items"`
}

// TransitionCommand requests a status change on an existing payment.
type TransitionCommand struct {
	PaymentID string
	NewStatus string
	Reason    string
}

// ListQuery narrows and pages a payment listing.
type ListQuery struct {
	Status string
	Limit  int
	Cursor string
}
