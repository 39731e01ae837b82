package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/domain"
)

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		respondWithError(w, application.NewInternalError(err))
		return
	}
	respondWithRawData(w, status, raw)
}

// respondWithRawData writes already-serialized data. Replayed idempotent
// responses go through here so the body matches the original byte for byte.
func respondWithRawData(w http.ResponseWriter, status int, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: true,
		Data:    data,
	})
}

func respondWithError(w http.ResponseWriter, err error) {
	code := application.ErrCodeInternal
	message := "An internal error occurred"
	status := http.StatusInternalServerError

	if svcErr, ok := application.IsServiceError(err); ok {
		code = svcErr.Code
		message = svcErr.Message
		status = svcErr.HTTPStatus
	} else {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			code = domainErr.Code
			message = domainErr.Message

			switch domainErr.Code {
			case domain.ErrCodePaymentNotFound:
				status = http.StatusNotFound
			case domain.ErrCodeInvalidTransition:
				status = http.StatusUnprocessableEntity
			case domain.ErrCodeDuplicateIdempotencyKey:
				status = http.StatusConflict
			default:
				status = http.StatusBadRequest
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

func respondWithValidationError(w http.ResponseWriter, err error) {
	respondWithError(w, application.NewValidationError(err.Error()))
}
