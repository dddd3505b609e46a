package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/agristock/agristock/internal/auth"
	"github.com/agristock/agristock/internal/db"
	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

const testJWTSecret = "test-secret"

// setupTestServer starts the full API over a fresh database and returns
// coordinator and field tokens. Tokens are minted directly; the account
// system that would normally issue them lives outside this service.
func setupTestServer(t *testing.T) (*httptest.Server, string, string) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	coordinator, err := store.CreateStaff(ctx, database, "Grace", model.RoleCoordinator)
	if err != nil {
		t.Fatalf("creating coordinator: %v", err)
	}
	field, err := store.CreateStaff(ctx, database, "Joseph", model.RoleField)
	if err != nil {
		t.Fatalf("creating field staff: %v", err)
	}

	s := store.New(database)
	router := NewRouter(Deps{
		DB:        database,
		Engine:    ledger.NewEngine(s, nil, slog.Default()),
		Lending:   ledger.NewLending(s, nil, slog.Default()),
		Approvals: ledger.NewApprovals(s, slog.Default()),
		JWTSecret: testJWTSecret,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	coordToken, err := auth.GenerateToken(testJWTSecret, coordinator.ID, coordinator.Name, coordinator.Role)
	if err != nil {
		t.Fatalf("minting coordinator token: %v", err)
	}
	fieldToken, err := auth.GenerateToken(testJWTSecret, field.ID, field.Name, field.Role)
	if err != nil {
		t.Fatalf("minting field token: %v", err)
	}

	return server, coordToken, fieldToken
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()

	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, url, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestRoleEnforcement(t *testing.T) {
	server, _, fieldToken := setupTestServer(t)

	// Field staff may not create items.
	doJSON(t, "POST", server.URL+"/api/items", fieldToken,
		map[string]string{"name": "Maize Seed"}, http.StatusForbidden, nil)

	// Nor touch staff administration.
	doJSON(t, "GET", server.URL+"/api/staff", fieldToken, nil, http.StatusForbidden, nil)
}

func TestDisbursementFlow(t *testing.T) {
	server, coordToken, fieldToken := setupTestServer(t)

	var item model.Item
	doJSON(t, "POST", server.URL+"/api/items", coordToken,
		map[string]string{"name": "Maize Seed", "classification": "input", "code": "ITM-001"},
		http.StatusCreated, &item)

	doJSON(t, "POST", server.URL+"/api/items/"+itoa(item.ID)+"/stock", coordToken,
		map[string]int{"quantity": 10}, http.StatusOK, &item)
	if item.Quantity != 10 {
		t.Fatalf("expected 10 on hand, got %d", item.Quantity)
	}

	var farmer model.Farmer
	doJSON(t, "POST", server.URL+"/api/farmers", coordToken,
		map[string]string{"name": "Amina Yusuf", "cluster": "north", "code": "F-001"},
		http.StatusCreated, &farmer)

	// Field staff disburse by scanned codes.
	var rec model.DisbursementRecord
	doJSON(t, "POST", server.URL+"/api/disbursements", fieldToken,
		map[string]any{"item_code": "ITM-001", "farmer_code": "F-001", "quantity": 4},
		http.StatusCreated, &rec)
	if rec.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", rec.Quantity)
	}

	doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), fieldToken, nil, http.StatusOK, &item)
	if item.Quantity != 6 {
		t.Errorf("expected 6 on hand after disbursement, got %d", item.Quantity)
	}

	// Asking for more than on hand is a conflict.
	doJSON(t, "POST", server.URL+"/api/disbursements", fieldToken,
		map[string]any{"item_id": item.ID, "farmer_id": farmer.ID, "quantity": 100},
		http.StatusConflict, nil)

	// Open a return and accept it.
	var ret model.ReturnRecord
	doJSON(t, "POST", server.URL+"/api/returns", fieldToken,
		map[string]any{"disbursement_id": rec.ID, "quantity": 2, "reason": "excess", "cluster": "north"},
		http.StatusCreated, &ret)

	doJSON(t, "PUT", server.URL+"/api/returns/"+itoa(ret.ID)+"/status", coordToken,
		map[string]string{"status": "returned"}, http.StatusOK, &ret)
	if ret.Status != model.ReturnStatusReturned {
		t.Errorf("expected returned status, got %q", ret.Status)
	}

	doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), fieldToken, nil, http.StatusOK, &item)
	if item.Quantity != 8 {
		t.Errorf("expected 8 on hand after accepted return, got %d", item.Quantity)
	}
}

func TestLendingFlow(t *testing.T) {
	server, coordToken, fieldToken := setupTestServer(t)

	var asset model.Asset
	doJSON(t, "POST", server.URL+"/api/assets", coordToken,
		map[string]string{"name": "Tractor"}, http.StatusCreated, &asset)

	var farmer model.Farmer
	doJSON(t, "POST", server.URL+"/api/farmers", coordToken,
		map[string]string{"name": "Amina"}, http.StatusCreated, &farmer)

	var loan model.AssetLoanRecord
	doJSON(t, "POST", server.URL+"/api/assets/"+itoa(asset.ID)+"/borrow", fieldToken,
		map[string]any{"farmer_id": farmer.ID}, http.StatusCreated, &loan)
	if !loan.Open() {
		t.Fatal("expected open loan")
	}

	// Borrowing again while out is a conflict.
	doJSON(t, "POST", server.URL+"/api/assets/"+itoa(asset.ID)+"/borrow", fieldToken,
		map[string]any{"farmer_id": farmer.ID}, http.StatusConflict, nil)

	var open []model.AssetLoanRecord
	doJSON(t, "GET", server.URL+"/api/assets/"+itoa(asset.ID)+"/loans?open=true", fieldToken,
		nil, http.StatusOK, &open)
	if len(open) != 1 {
		t.Fatalf("expected 1 open loan, got %d", len(open))
	}

	doJSON(t, "POST", server.URL+"/api/assets/"+itoa(asset.ID)+"/return", fieldToken,
		map[string]string{"remarks": "ok"}, http.StatusOK, &loan)
	if loan.Open() {
		t.Error("expected loan to be closed")
	}

	// Returning with no open loan is a conflict.
	doJSON(t, "POST", server.URL+"/api/assets/"+itoa(asset.ID)+"/return", fieldToken,
		map[string]string{}, http.StatusConflict, nil)
}

func TestRequestFlow(t *testing.T) {
	server, coordToken, fieldToken := setupTestServer(t)

	var item model.Item
	doJSON(t, "POST", server.URL+"/api/items", coordToken,
		map[string]string{"name": "Fertilizer"}, http.StatusCreated, &item)
	doJSON(t, "POST", server.URL+"/api/items/"+itoa(item.ID)+"/stock", coordToken,
		map[string]int{"quantity": 5}, http.StatusOK, &item)

	var farmer model.Farmer
	doJSON(t, "POST", server.URL+"/api/farmers", coordToken,
		map[string]string{"name": "Joseph"}, http.StatusCreated, &farmer)

	var req model.ApprovalRequest
	doJSON(t, "POST", server.URL+"/api/requests", fieldToken,
		map[string]any{
			"requester_id": farmer.ID,
			"lines":        []map[string]any{{"item_id": item.ID, "quantity": 8}},
		}, http.StatusCreated, &req)

	// Approval fails while stock cannot cover the lines.
	doJSON(t, "PUT", server.URL+"/api/requests/"+itoa(req.ID)+"/decision", coordToken,
		map[string]string{"decision": "approved"}, http.StatusConflict, nil)

	// Trim the request, then approve.
	doJSON(t, "PUT", server.URL+"/api/requests/"+itoa(req.ID)+"/lines", fieldToken,
		map[string]any{"lines": []map[string]any{{"item_id": item.ID, "quantity": 5}}},
		http.StatusOK, &req)
	doJSON(t, "PUT", server.URL+"/api/requests/"+itoa(req.ID)+"/decision", coordToken,
		map[string]string{"decision": "approved"}, http.StatusOK, &req)
	if req.Status != model.RequestStatusApproved {
		t.Fatalf("expected approved, got %q", req.Status)
	}

	// Approval certifies only: stock is untouched.
	doJSON(t, "GET", server.URL+"/api/items/"+itoa(item.ID), fieldToken, nil, http.StatusOK, &item)
	if item.Quantity != 5 {
		t.Errorf("expected 5 on hand after approval, got %d", item.Quantity)
	}

	// Decided requests are closed.
	doJSON(t, "PUT", server.URL+"/api/requests/"+itoa(req.ID)+"/decision", coordToken,
		map[string]string{"decision": "rejected"}, http.StatusConflict, nil)
}
