package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/agristock/agristock/internal/db"
	"github.com/agristock/agristock/internal/model"
)

// seedDisbursement inserts a disbursement through the transactional layer.
func seedDisbursement(t *testing.T, database *sql.DB, itemID, farmerID, staffID int64, qty int) *model.DisbursementRecord {
	t.Helper()
	ctx := context.Background()

	tx, err := New(database).Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	rec, err := tx.InsertDisbursement(ctx, itemID, farmerID, staffID, qty)
	if err != nil {
		t.Fatalf("InsertDisbursement: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return rec
}

func TestListDisbursementsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	seed, _ := CreateItem(ctx, database, "Maize Seed", "input", "")
	tools, _ := CreateItem(ctx, database, "Hoe", "tool", "")
	amina, _ := CreateFarmer(ctx, database, "Amina", "", "")
	joseph, _ := CreateFarmer(ctx, database, "Joseph", "", "")
	staff, _ := CreateStaff(ctx, database, "Grace", model.RoleField)

	seedDisbursement(t, database, seed.ID, amina.ID, staff.ID, 2)
	seedDisbursement(t, database, seed.ID, joseph.ID, staff.ID, 3)
	seedDisbursement(t, database, tools.ID, amina.ID, staff.ID, 1)

	all, err := ListDisbursements(ctx, database, 0, 0)
	if err != nil {
		t.Fatalf("ListDisbursements: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 disbursements, got %d", len(all))
	}
	if all[0].ItemName == "" || all[0].FarmerName == "" {
		t.Error("expected joined names to be populated")
	}

	bySeed, _ := ListDisbursements(ctx, database, seed.ID, 0)
	if len(bySeed) != 2 {
		t.Errorf("expected 2 disbursements for item, got %d", len(bySeed))
	}

	byAmina, _ := ListDisbursements(ctx, database, 0, amina.ID)
	if len(byAmina) != 2 {
		t.Errorf("expected 2 disbursements for farmer, got %d", len(byAmina))
	}
}

func TestListReturnsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Fertilizer", "input", "")
	farmer, _ := CreateFarmer(ctx, database, "Amina", "north", "")
	staff, _ := CreateStaff(ctx, database, "Grace", model.RoleField)
	disb := seedDisbursement(t, database, item.ID, farmer.ID, staff.ID, 5)

	tx, err := New(database).Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	ret, err := tx.InsertReturn(ctx, &model.ReturnRecord{
		DisbursementID: disb.ID,
		ItemID:         item.ID,
		FarmerID:       farmer.ID,
		Quantity:       2,
		Reason:         "excess",
		Cluster:        "north",
		Status:         model.ReturnStatusPending,
	})
	if err != nil {
		t.Fatalf("InsertReturn: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	pending, err := ListReturns(ctx, database, model.ReturnStatusPending, "")
	if err != nil {
		t.Fatalf("ListReturns: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ret.ID {
		t.Fatalf("expected the pending return, got %+v", pending)
	}

	north, _ := ListReturns(ctx, database, "", "north")
	if len(north) != 1 {
		t.Errorf("expected 1 return in north, got %d", len(north))
	}

	returned, _ := ListReturns(ctx, database, model.ReturnStatusReturned, "")
	if len(returned) != 0 {
		t.Errorf("expected 0 returned records, got %d", len(returned))
	}
}

func TestRequestsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Beans", "input", "")
	farmer, _ := CreateFarmer(ctx, database, "Amina", "", "")

	s := New(database)
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	req, err := tx.InsertRequest(ctx, farmer.ID, []model.RequestLine{{ItemID: item.ID, Quantity: 4}})
	if err != nil {
		t.Fatalf("InsertRequest: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := GetRequest(ctx, database, req.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if got == nil || got.Status != model.RequestStatusPending {
		t.Fatalf("expected pending request, got %+v", got)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 4 {
		t.Fatalf("expected 1 line of quantity 4, got %+v", got.Lines)
	}

	pending, _ := ListRequests(ctx, database, model.RequestStatusPending)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(pending))
	}
	approved, _ := ListRequests(ctx, database, model.RequestStatusApproved)
	if len(approved) != 0 {
		t.Errorf("expected 0 approved requests, got %d", len(approved))
	}
}
