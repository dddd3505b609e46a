package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agristock/agristock/internal/ledger"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// ledgerError maps a ledger error to an HTTP response. Callers re-fetch
// current state on conflict; the attempted delta is never applied
// optimistically client-side.
func ledgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, ledger.ErrInvalidLoanPeriod):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrAssetUnavailable),
		errors.Is(err, ledger.ErrNoOpenLoan),
		errors.Is(err, ledger.ErrRequestClosed):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrLedgerInconsistency):
		jsonError(w, http.StatusInternalServerError, err.Error())
	default:
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
