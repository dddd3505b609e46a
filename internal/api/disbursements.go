package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// DisbursementsHandler handles disbursement endpoints.
type DisbursementsHandler struct {
	DB     *sql.DB
	Engine *ledger.Engine
}

type createDisbursementRequest struct {
	ItemID     int64  `json:"item_id"`
	ItemCode   string `json:"item_code"`
	FarmerID   int64  `json:"farmer_id"`
	FarmerCode string `json:"farmer_code"`
	Quantity   int    `json:"quantity"`
}

// Create handles POST /api/disbursements. Item and farmer may be given
// by ID or by scanned reference code.
func (h *DisbursementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDisbursementRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	if req.ItemID == 0 && req.ItemCode != "" {
		item, err := store.GetItemByCode(ctx, h.DB, req.ItemCode)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to resolve item code")
			return
		}
		if item == nil {
			jsonError(w, http.StatusNotFound, "unknown item code")
			return
		}
		req.ItemID = item.ID
	}
	if req.FarmerID == 0 && req.FarmerCode != "" {
		farmer, err := store.GetFarmerByCode(ctx, h.DB, req.FarmerCode)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to resolve farmer code")
			return
		}
		if farmer == nil {
			jsonError(w, http.StatusNotFound, "unknown farmer code")
			return
		}
		req.FarmerID = farmer.ID
	}

	if req.ItemID <= 0 || req.FarmerID <= 0 || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "item, farmer, and positive quantity are required")
		return
	}

	claims := GetClaims(ctx)
	rec, err := h.Engine.Disburse(ctx, req.ItemID, req.FarmerID, claims.StaffID, req.Quantity)
	if err != nil {
		ledgerError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, rec)
}

// List handles GET /api/disbursements.
func (h *DisbursementsHandler) List(w http.ResponseWriter, r *http.Request) {
	var itemID, farmerID int64

	if v := r.URL.Query().Get("item_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		itemID = id
	}
	if v := r.URL.Query().Get("farmer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid farmer_id")
			return
		}
		farmerID = id
	}

	records, err := store.ListDisbursements(r.Context(), h.DB, itemID, farmerID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list disbursements")
		return
	}
	if records == nil {
		records = []model.DisbursementRecord{}
	}
	jsonResponse(w, http.StatusOK, records)
}
