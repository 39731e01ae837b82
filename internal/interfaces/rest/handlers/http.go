package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/duespay/duespay/internal/application/services"
	"github.com/duespay/duespay/internal/domain"
	"github.com/go-playground/validator"
)

type CreateService interface {
	Create(ctx context.Context, cmd services.CreatePaymentCommand, idempotencyKey string) (json.RawMessage, bool, error)
}

type BatchService interface {
	Process(ctx context.Context, cmd services.BatchCommand, idempotencyKey string) (json.RawMessage, bool, error)
}

type TransitionService interface {
	Transition(ctx context.Context, cmd services.TransitionCommand) (*domain.Payment, error)
}

type QueryService interface {
	FindByID(ctx context.Context, id string) (*services.PaymentResponse, error)
	History(ctx context.Context, paymentID string) ([]services.HistoryResponse, error)
	List(ctx context.Context, q services.ListQuery) (*services.ListResponse, error)
}

type PaymentHandler struct {
	createService     CreateService
	batchService      BatchService
	transitionService TransitionService
	queryService      QueryService
	validate          *validator.Validate
}

func NewPaymentHandler(
	createService CreateService,
	batchService BatchService,
	transitionService TransitionService,
	queryService QueryService,
) *PaymentHandler {
	return &PaymentHandler{
		createService:     createService,
		batchService:      batchService,
		transitionService: transitionService,
		queryService:      queryService,
		validate:          validator.New(),
	}
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /payments", h.HandleCreate)
	mux.HandleFunc("POST /payments/batch", h.HandleBatch)
	mux.HandleFunc("POST /payments/{id}/status", h.HandleStatusUpdate)
	mux.HandleFunc("GET /payments", h.HandleList)
	mux.HandleFunc("GET /payments/{id}", h.HandleGet)
	mux.HandleFunc("GET /payments/{id}/history", h.HandleHistory)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

func (h *PaymentHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
