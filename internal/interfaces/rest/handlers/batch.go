package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/services"
)

type BatchRequest struct {
	Items []CreatePaymentRequest `json:"items" validate:"required,min=1,dive"`
}

func (req *BatchRequest) toCommand() services.BatchCommand {
	cmd := services.BatchCommand{
		Items: make([]services.CreatePaymentCommand, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, item.toCommand())
	}
	return cmd
}

// HandleBatch submits many creation requests at once. Individual item
// failures surface inside the aggregated response, never as a batch-level
// error.
func (h *PaymentHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, application.NewValidationError("unreadable request body"))
		return
	}

	var req BatchRequest
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

	resp, replayed, err := h.batchService.Process(r.Context(), req.toCommand(), idemKey)
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
