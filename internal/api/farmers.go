package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// FarmersHandler handles farmer endpoints.
type FarmersHandler struct {
	DB *sql.DB
}

type farmerRequest struct {
	Name    string `json:"name"`
	Cluster string `json:"cluster"`
	Code    string `json:"code"`
}

// List handles GET /api/farmers.
func (h *FarmersHandler) List(w http.ResponseWriter, r *http.Request) {
	farmers, err := store.ListFarmers(r.Context(), h.DB, r.URL.Query().Get("cluster"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list farmers")
		return
	}
	if farmers == nil {
		farmers = []model.Farmer{}
	}
	jsonResponse(w, http.StatusOK, farmers)
}

// Create handles POST /api/farmers.
func (h *FarmersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req farmerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}

	farmer, err := store.CreateFarmer(r.Context(), h.DB, req.Name, req.Cluster, req.Code)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, farmer)
}

// Get handles GET /api/farmers/{id}.
func (h *FarmersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	farmer, err := store.GetFarmer(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get farmer")
		return
	}
	if farmer == nil {
		jsonError(w, http.StatusNotFound, "farmer not found")
		return
	}
	jsonResponse(w, http.StatusOK, farmer)
}

// Update handles PUT /api/farmers/{id}.
func (h *FarmersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req farmerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateFarmer(r.Context(), h.DB, id, req.Name, req.Cluster, req.Code); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "farmer updated"})
}

// Delete handles DELETE /api/farmers/{id}.
func (h *FarmersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := store.DeleteFarmer(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "farmer deleted"})
}
