package handlers

import (
	"net/http"
	"strconv"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/services"
)

func (h *PaymentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	payment, err := h.queryService.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.queryService.History(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}

// HandleList pages through payments newest first. The cursor of a page is
// only usable for the page immediately after it.
func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := services.ListQuery{
		Status: r.URL.Query().Get("status"),
		Cursor: r.URL.Query().Get("cursor"),
	}

	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			respondWithError(w, application.NewValidationError("limit must be an integer"))
			return
		}
		q.Limit = limit
	}

	page, err := h.queryService.List(r.Context(), q)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}
