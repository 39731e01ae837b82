package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/services"
)

type CreatePaymentRequest struct {
	Description string    `json:"description" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	PayerName   string    `json:"payer_name" validate:"required"`
	PayerEmail  string    `json:"payer_email" validate:"required,email"`
}

func (req *CreatePaymentRequest) toCommand() services.CreatePaymentCommand {
	return services.CreatePaymentCommand{
		Description: req.Description,
		DueDate:     req.DueDate,
		Amount:      req.Amount,
		Currency:    req.Currency,
		PayerName:   req.PayerName,
		PayerEmail:  req.PayerEmail,
	}
}

// HandleCreate processes a single payment creation. A replayed request
// answers 200 with the originally cached body; a fresh one answers 201.
func (h *PaymentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, application.NewValidationError("unreadable request body"))
		return
	}

	var req CreatePaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, application.NewValidationError("malformed request body"))
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey == "" {
		respondWithError(w, application.NewValidationError("Idempotency-Key header is required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	resp, replayed, err := h.createService.Create(r.Context(), req.toCommand(), idemKey)
	if err != nil {
		respondWithError(w, err)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	respondWithRawData(w, status, resp)
}
