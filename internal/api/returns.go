package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// ReturnsHandler handles return endpoints.
type ReturnsHandler struct {
	DB     *sql.DB
	Engine *ledger.Engine
}

type createReturnRequest struct {
	DisbursementID int64  `json:"disbursement_id"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason"`
	Cluster        string `json:"cluster"`
}

type setReturnStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/returns.
func (h *ReturnsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DisbursementID <= 0 || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "disbursement_id and positive quantity are required")
		return
	}

	ret, err := h.Engine.CreateReturn(r.Context(), req.DisbursementID, req.Quantity, req.Reason, req.Cluster)
	if err != nil {
		ledgerError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, ret)
}

// SetStatus handles PUT /api/returns/{id}/status.
func (h *ReturnsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req setReturnStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ret, err := h.Engine.SetReturnStatus(r.Context(), id, req.Status)
	if err != nil {
		ledgerError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, ret)
}

// List handles GET /api/returns.
func (h *ReturnsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	cluster := r.URL.Query().Get("cluster")

	records, err := store.ListReturns(r.Context(), h.DB, status, cluster)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list returns")
		return
	}
	if records == nil {
		records = []model.ReturnRecord{}
	}
	jsonResponse(w, http.StatusOK, records)
}
