package services

import (
	"time"

	"github.com/duespay/duespay/internal/domain"
)

// PaymentResponse is the serializable view of a payment returned to callers
// and cached by the idempotency guard.
type PaymentResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	PayerName   string    `json:"payer_name"`
	PayerEmail  string    `json:"payer_email"`
	Status      string    `json:"status"`
	CheckoutRef string    `json:"checkout_ref"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Description: p.Description,
		DueDate:     p.DueDate,
		Amount:      p.Amount,
		Currency:    p.Currency,
		PayerName:   p.PayerName,
		PayerEmail:  p.PayerEmail,
		Status:      string(p.Status),
		CheckoutRef: p.CheckoutRef,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ItemError is the terminal failure recorded in a batch slot after retries
// are exhausted.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItemResult is one slot of a batch response, aligned to the input
// index regardless of completion order.
type BatchItemResult struct {
	Index     int        `json:"index"`
	PaymentID string     `json:"payment_id,omitempty"`
	Status    string     `json:"status,omitempty"`
	Error     *ItemError `json:"error,omitempty"`
}

// BatchResponse aggregates per-item outcomes. Succeeded and Failed always
// sum to the input length; item failures never fail the batch.
type BatchResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// ListResponse is one page of payments plus the token for the next page,
// present only when a further page exists.
type ListResponse struct {
	Data       []PaymentResponse `json:"data"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

// HistoryResponse is the serializable view of one audit record.
type HistoryResponse struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"payment_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToHistoryResponse(h *domain.PaymentHistory) HistoryResponse {
	return HistoryResponse{
		ID:        h.ID,
		PaymentID: h.PaymentID,
		OldStatus: string(h.OldStatus),
		NewStatus: string(h.NewStatus),
		Reason:    h.Reason,
		CreatedAt: h.CreatedAt,
	}
}
