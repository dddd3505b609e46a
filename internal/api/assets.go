package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// AssetsHandler handles asset and loan endpoints. Availability flips go
// through the lending state machine only.
type AssetsHandler struct {
	DB      *sql.DB
	Lending *ledger.Lending
}

type assetRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Condition string `json:"condition"`
}

type borrowRequest struct {
	FarmerID   int64      `json:"farmer_id"`
	FarmerCode string     `json:"farmer_code"`
	BorrowedAt *time.Time `json:"borrowed_at"`
	DueAt      *time.Time `json:"due_at"`
}

type returnAssetRequest struct {
	Remarks string `json:"remarks"`
}

// List handles GET /api/assets.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	availableOnly := r.URL.Query().Get("available") == "true"

	assets, err := store.ListAssets(r.Context(), h.DB, availableOnly)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}

	asset, err := store.CreateAsset(r.Context(), h.DB, req.Name, req.Code, req.Condition)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// Update handles PUT /api/assets/{id}.
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateAsset(r.Context(), h.DB, id, req.Name, req.Code, req.Condition); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset updated"})
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := store.DeleteAsset(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

// Borrow handles POST /api/assets/{id}/borrow. The farmer may be given
// by ID or by scanned reference code.
func (h *AssetsHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req borrowRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
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
	if req.FarmerID <= 0 {
		jsonError(w, http.StatusBadRequest, "farmer is required")
		return
	}

	var borrowedAt, dueAt time.Time
	if req.BorrowedAt != nil {
		borrowedAt = *req.BorrowedAt
	}
	if req.DueAt != nil {
		dueAt = *req.DueAt
	}

	loan, err := h.Lending.Borrow(ctx, id, req.FarmerID, borrowedAt, dueAt)
	if err != nil {
		ledgerError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, loan)
}

// Return handles POST /api/assets/{id}/return.
func (h *AssetsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req returnAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loan, err := h.Lending.ReturnAsset(r.Context(), id, req.Remarks)
	if err != nil {
		ledgerError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, loan)
}

// Loans handles GET /api/assets/{id}/loans.
func (h *AssetsHandler) Loans(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	openOnly := r.URL.Query().Get("open") == "true"
	loans, err := store.ListLoans(r.Context(), h.DB, id, 0, openOnly)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list loans")
		return
	}
	if loans == nil {
		loans = []model.AssetLoanRecord{}
	}
	jsonResponse(w, http.StatusOK, loans)
}
