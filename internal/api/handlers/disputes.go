package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smokwena/dispute-backend/internal/api/httpx"
	"github.com/smokwena/dispute-backend/internal/api/validate"
	"github.com/smokwena/dispute-backend/internal/engine"
	"github.com/smokwena/dispute-backend/internal/middleware"
	"github.com/smokwena/dispute-backend/internal/models"
	"github.com/smokwena/dispute-backend/internal/services"
)

type DisputeHandlers struct {
	Disputes *services.DisputeService
}

func (h *DisputeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	var req struct {
		TransactionID string `json:"transaction_id"`
		ReasonCode    string `json:"reason_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	if err := validate.Collect(
		validate.Required("transaction_id", req.TransactionID),
		validate.Required("reason_code", req.ReasonCode),
	); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", err.Error(), err)
		return
	}
	d, err := h.Disputes.Create(r.Context(), req.TransactionID, models.DisputeReason(req.ReasonCode), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, d)
}

func (h *DisputeHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	disputes, err := h.Disputes.ListForUser(r.Context(), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	disputes = engine.FilterDisputes(disputes, r.URL.Query().Get("q"))
	httpx.WriteJSON(w, http.StatusOK, disputes)
}

func (h *DisputeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	d, err := h.Disputes.Get(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DisputeHandlers) Events(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	events, err := h.Disputes.Events(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

// Transitions reports which statuses the dispute can move to next.
func (h *DisputeHandlers) Transitions(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	d, err := h.Disputes.Get(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"current":   d.Status,
		"available": engine.AvailableTransitions(d.Status),
	})
}

// Cancel is the customer-initiated transition to CANCELLED.
func (h *DisputeHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	var req struct {
		ExpectedStatus string `json:"expected_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExpectedStatus == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "expected_status required", nil)
		return
	}
	d, err := h.Disputes.Transition(r.Context(), chi.URLParam(r, "id"),
		models.DisputeCancelled, models.DisputeStatus(req.ExpectedStatus), "", actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// UpdateStatus is the admin transition endpoint.
func (h *DisputeHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	var req struct {
		StatusCode      string `json:"status_code"`
		ExpectedStatus  string `json:"expected_status"`
		ResolutionNotes string `json:"resolution_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
		return
	}
	if err := validate.Collect(
		validate.Required("status_code", req.StatusCode),
		validate.Required("expected_status", req.ExpectedStatus),
	); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation", err.Error(), err)
		return
	}
	d, err := h.Disputes.Transition(r.Context(), chi.URLParam(r, "id"),
		models.DisputeStatus(req.StatusCode), models.DisputeStatus(req.ExpectedStatus),
		req.ResolutionNotes, actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DisputeHandlers) Assign(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	var req struct {
		AdminID string `json:"admin_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "admin_id required", nil)
		return
	}
	d, err := h.Disputes.Assign(r.Context(), chi.URLParam(r, "id"), req.AdminID, actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DisputeHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	h.comment(w, r, false)
}

func (h *DisputeHandlers) AddInternalNote(w http.ResponseWriter, r *http.Request) {
	h.comment(w, r, true)
}

func (h *DisputeHandlers) comment(w http.ResponseWriter, r *http.Request, internal bool) {
	actor, _ := middleware.Identity(r.Context())
	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Comment == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "comment required", nil)
		return
	}
	ev, err := h.Disputes.AddComment(r.Context(), chi.URLParam(r, "id"), req.Comment, internal, actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ev)
}

func (h *DisputeHandlers) RecordAttachment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	var req struct {
		FileName string `json:"file_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "file_name required", nil)
		return
	}
	ev, err := h.Disputes.RecordAttachment(r.Context(), chi.URLParam(r, "id"), req.FileName, actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ev)
}

// ---------- admin listings ----------

func (h *DisputeHandlers) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.DisputeFilter{Status: models.DisputeStatus(q.Get("status"))}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	if v := q.Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Size = n
		}
	}
	page, err := h.Disputes.List(r.Context(), f)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *DisputeHandlers) AssignedToMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.Identity(r.Context())
	disputes, err := h.Disputes.ListAssigned(r.Context(), actor)
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, disputes)
}

func (h *DisputeHandlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Disputes.Statistics(r.Context())
	if err != nil {
		httpx.WriteEngineError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
