package api

import (
	"database/sql"
	"net/http"

	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
)

// Deps holds everything the router needs to wire handlers.
type Deps struct {
	DB        *sql.DB
	Engine    *ledger.Engine
	Lending   *ledger.Lending
	Approvals *ledger.Approvals
	JWTSecret string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: deps.DB, Engine: deps.Engine}
	farmersHandler := &FarmersHandler{DB: deps.DB}
	staffHandler := &StaffHandler{DB: deps.DB}
	disbursementsHandler := &DisbursementsHandler{DB: deps.DB, Engine: deps.Engine}
	returnsHandler := &ReturnsHandler{DB: deps.DB, Engine: deps.Engine}
	assetsHandler := &AssetsHandler{DB: deps.DB, Lending: deps.Lending}
	requestsHandler := &RequestsHandler{DB: deps.DB, Approvals: deps.Approvals}

	authMW := AuthMiddleware(deps.JWTSecret)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireCoordinator := RequireRole(model.RoleCoordinator)

	// Staff (admin only).
	mux.Handle("GET /api/staff", authMW(requireAdmin(http.HandlerFunc(staffHandler.List))))
	mux.Handle("POST /api/staff", authMW(requireAdmin(http.HandlerFunc(staffHandler.Create))))
	mux.Handle("GET /api/staff/{id}", authMW(requireAdmin(http.HandlerFunc(staffHandler.Get))))
	mux.Handle("PUT /api/staff/{id}", authMW(requireAdmin(http.HandlerFunc(staffHandler.Update))))
	mux.Handle("DELETE /api/staff/{id}", authMW(requireAdmin(http.HandlerFunc(staffHandler.Delete))))

	// Farmers: read (all roles), write (coordinator+).
	mux.Handle("GET /api/farmers", authMW(http.HandlerFunc(farmersHandler.List)))
	mux.Handle("POST /api/farmers", authMW(requireCoordinator(http.HandlerFunc(farmersHandler.Create))))
	mux.Handle("GET /api/farmers/{id}", authMW(http.HandlerFunc(farmersHandler.Get)))
	mux.Handle("PUT /api/farmers/{id}", authMW(requireCoordinator(http.HandlerFunc(farmersHandler.Update))))
	mux.Handle("DELETE /api/farmers/{id}", authMW(requireCoordinator(http.HandlerFunc(farmersHandler.Delete))))

	// Items: read (all roles), metadata and stock writes (coordinator+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireCoordinator(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireCoordinator(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireCoordinator(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("POST /api/items/{id}/stock", authMW(requireCoordinator(http.HandlerFunc(itemsHandler.AddStock))))

	// Disbursements (all roles; field staff hand out stock).
	mux.Handle("POST /api/disbursements", authMW(http.HandlerFunc(disbursementsHandler.Create)))
	mux.Handle("GET /api/disbursements", authMW(http.HandlerFunc(disbursementsHandler.List)))

	// Returns: create (all roles), status transitions (coordinator+).
	mux.Handle("POST /api/returns", authMW(http.HandlerFunc(returnsHandler.Create)))
	mux.Handle("GET /api/returns", authMW(http.HandlerFunc(returnsHandler.List)))
	mux.Handle("PUT /api/returns/{id}/status", authMW(requireCoordinator(http.HandlerFunc(returnsHandler.SetStatus))))

	// Assets: read (all roles), metadata writes (coordinator+),
	// borrow/return (all roles).
	mux.Handle("GET /api/assets", authMW(http.HandlerFunc(assetsHandler.List)))
	mux.Handle("POST /api/assets", authMW(requireCoordinator(http.HandlerFunc(assetsHandler.Create))))
	mux.Handle("GET /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Get)))
	mux.Handle("PUT /api/assets/{id}", authMW(requireCoordinator(http.HandlerFunc(assetsHandler.Update))))
	mux.Handle("DELETE /api/assets/{id}", authMW(requireCoordinator(http.HandlerFunc(assetsHandler.Delete))))
	mux.Handle("POST /api/assets/{id}/borrow", authMW(http.HandlerFunc(assetsHandler.Borrow)))
	mux.Handle("POST /api/assets/{id}/return", authMW(http.HandlerFunc(assetsHandler.Return)))
	mux.Handle("GET /api/assets/{id}/loans", authMW(http.HandlerFunc(assetsHandler.Loans)))

	// Requests: submit and read (all roles), decisions (coordinator+).
	mux.Handle("POST /api/requests", authMW(http.HandlerFunc(requestsHandler.Submit)))
	mux.Handle("GET /api/requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("GET /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("PUT /api/requests/{id}/lines", authMW(http.HandlerFunc(requestsHandler.EditLines)))
	mux.Handle("PUT /api/requests/{id}/decision", authMW(requireCoordinator(http.HandlerFunc(requestsHandler.Decide))))

	return mux
}
