package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smokwena/dispute-backend/internal/api/httpx"
	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/middleware"
	"github.com/smokwena/dispute-backend/internal/models"
	"github.com/smokwena/dispute-backend/internal/services"
)

type TransactionHandlers struct {
	Txns *services.TransactionService
}

func (h *TransactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())

	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	txs, err := h.Txns.ListForUser(r.Context(), actor, limit, offset)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	// search term filtering is presentation-side, applied to the snapshot
	txs = engine.FilterTransactions(txs, r.URL.Query().Get("q"))
	httpx.WriteJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	tx, err := h.Txns.Get(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandlers) Disputable(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	txs, err := h.Txns.Disputable(r.Context(), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	summary, err := h.Txns.Summary(r.Context(), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

func (h *TransactionHandlers) Search(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	f, err := filterFromQuery(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	txs, err := h.Txns.Search(r.Context(), f, actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txs)
}

func filterFromQuery(r *http.Request) (models.TransactionFilter, error) {
	q := r.URL.Query()
	f := models.TransactionFilter{
		Status: models.TransactionStatus(q.Get("status")),
		Type:   models.TransactionType(q.Get("type")),
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, err
		}
		f.EndDate = &t
	}
	if v := q.Get("min_amount"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, err
		}
		f.MinAmount = &n
	}
	if v := q.Get("max_amount"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, err
		}
		f.MaxAmount = &n
	}
	return f, nil
}
