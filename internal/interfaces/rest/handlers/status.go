package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/services"
)

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// HandleStatusUpdate is the webhook-style entry point for status changes.
// Transitions are validated against the payment lifecycle; each applied
// change leaves one audit record.
func (h *PaymentHandler) HandleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, application.NewValidationError("unreadable request body"))
		return
	}

	var req StatusUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, application.NewValidationError("malformed request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithValidationError(w, err)
		return
	}

	payment, err := h.transitionService.Transition(r.Context(), services.TransitionCommand{
		PaymentID: paymentID,
		NewStatus: req.Status,
		Reason:    req.Reason,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services.ToPaymentResponse(payment))
}
