package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// RequestsHandler handles approval request endpoints.
type RequestsHandler struct {
	DB        *sql.DB
	Approvals *ledger.Approvals
}

type requestLinePayload struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type submitRequestPayload struct {
	RequesterID int64                `json:"requester_id"`
	Lines       []requestLinePayload `json:"lines"`
}

type editLinesPayload struct {
	Lines []requestLinePayload `json:"lines"`
}

type decisionPayload struct {
	Decision string `json:"decision"`
}

func toModelLines(payload []requestLinePayload) []model.RequestLine {
	lines := make([]model.RequestLine, len(payload))
	for i, p := range payload {
		lines[i] = model.RequestLine{ItemID: p.ItemID, Quantity: p.Quantity}
	}
	return lines
}

// Submit handles POST /api/requests.
func (h *RequestsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequestPayload
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RequesterID <= 0 {
		jsonError(w, http.StatusBadRequest, "requester_id is required")
		return
	}

	created, err := h.Approvals.Submit(r.Context(), req.RequesterID, toModelLines(req.Lines))
	if err != nil {
		ledgerError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	req, err := store.GetRequest(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get request")
		return
	}
	if req == nil {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	jsonResponse(w, http.StatusOK, req)
}

// List handles GET /api/requests.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListRequests(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.ApprovalRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// EditLines handles PUT /api/requests/{id}/lines.
func (h *RequestsHandler) EditLines(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req editLinesPayload
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Approvals.EditLines(r.Context(), id, toModelLines(req.Lines))
	if err != nil {
		ledgerError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Decide handles PUT /api/requests/{id}/decision.
func (h *RequestsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req decisionPayload
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decided, err := h.Approvals.Decide(r.Context(), id, req.Decision)
	if err != nil {
		ledgerError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, decided)
}
