package store

import (
	"context"
	"testing"
	"time"

	"github.com/agristock/agristock/internal/db"
	"github.com/agristock/agristock/internal/model"
)

func TestCreateAndGetAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, err := CreateAsset(ctx, database, "Tractor", "AST-001", model.AssetConditionGood)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if !asset.Available {
		t.Error("expected new asset to be available")
	}

	got, err := GetAssetByCode(ctx, database, "AST-001")
	if err != nil {
		t.Fatalf("GetAssetByCode: %v", err)
	}
	if got == nil || got.ID != asset.ID {
		t.Errorf("expected asset %d by code, got %+v", asset.ID, got)
	}
}

func TestListAvailableAssets(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateAsset(ctx, database, "Tractor", "", model.AssetConditionGood)
	pump, _ := CreateAsset(ctx, database, "Water Pump", "", model.AssetConditionGood)

	s := New(database)
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.SetAssetAvailability(ctx, pump.ID, false); err != nil {
		t.Fatalf("SetAssetAvailability: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	available, _ := ListAssets(ctx, database, true)
	if len(available) != 1 {
		t.Errorf("expected 1 available asset, got %d", len(available))
	}

	all, _ := ListAssets(ctx, database, false)
	if len(all) != 2 {
		t.Errorf("expected 2 assets, got %d", len(all))
	}
}

func TestListLoansFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, "Thresher", "", model.AssetConditionGood)
	farmer, _ := CreateFarmer(ctx, database, "Amina", "", "")

	s := New(database)
	borrowed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	first, err := tx.InsertLoan(ctx, asset.ID, farmer.ID, borrowed, borrowed.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("InsertLoan: %v", err)
	}
	if err := tx.CloseLoan(ctx, first.ID, borrowed.AddDate(0, 0, 3), "early"); err != nil {
		t.Fatalf("CloseLoan: %v", err)
	}
	if _, err := tx.InsertLoan(ctx, asset.ID, farmer.ID, borrowed.AddDate(0, 0, 10), borrowed.AddDate(0, 0, 17)); err != nil {
		t.Fatalf("InsertLoan: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	all, err := ListLoans(ctx, database, asset.ID, 0, false)
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(all))
	}

	open, _ := ListLoans(ctx, database, asset.ID, 0, true)
	if len(open) != 1 {
		t.Fatalf("expected 1 open loan, got %d", len(open))
	}
	if !open[0].Open() {
		t.Error("expected loan to be open")
	}

	byFarmer, _ := ListLoans(ctx, database, 0, farmer.ID, false)
	if len(byFarmer) != 2 {
		t.Errorf("expected 2 loans for farmer, got %d", len(byFarmer))
	}
}
