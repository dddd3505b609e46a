package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// StaffHandler handles staff endpoints.
type StaffHandler struct {
	DB *sql.DB
}

type staffRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// List handles GET /api/staff.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := store.ListStaff(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}
	if members == nil {
		members = []model.Staff{}
	}
	jsonResponse(w, http.StatusOK, members)
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Role == "" {
		jsonError(w, http.StatusBadRequest, "name and role are required")
		return
	}

	staff, err := store.CreateStaff(r.Context(), h.DB, req.Name, req.Role)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, staff)
}

// Get handles GET /api/staff/{id}.
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	staff, err := store.GetStaff(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get staff")
		return
	}
	if staff == nil {
		jsonError(w, http.StatusNotFound, "staff not found")
		return
	}
	jsonResponse(w, http.StatusOK, staff)
}

// Update handles PUT /api/staff/{id}.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req staffRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateStaff(r.Context(), h.DB, id, req.Name, req.Role); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "staff updated"})
}

// Delete handles DELETE /api/staff/{id}.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := store.DeleteStaff(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "staff deleted"})
}
