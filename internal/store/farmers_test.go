package store

import (
	"context"
	"testing"

	"github.com/agristock/agristock/internal/db"
)

func TestCreateAndGetFarmer(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	farmer, err := CreateFarmer(ctx, database, "Amina Yusuf", "north", "F-001")
	if err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	if farmer.Cluster != "north" {
		t.Errorf("expected cluster 'north', got %q", farmer.Cluster)
	}

	got, err := GetFarmerByCode(ctx, database, "F-001")
	if err != nil {
		t.Fatalf("GetFarmerByCode: %v", err)
	}
	if got == nil || got.ID != farmer.ID {
		t.Errorf("expected farmer %d by code, got %+v", farmer.ID, got)
	}
}

func TestDuplicateFarmerCode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateFarmer(ctx, database, "First", "", "F-001"); err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	if _, err := CreateFarmer(ctx, database, "Second", "", "F-001"); err == nil {
		t.Error("expected duplicate code to fail")
	}

	// Empty codes are stored as NULL and never collide.
	if _, err := CreateFarmer(ctx, database, "Third", "", ""); err != nil {
		t.Fatalf("CreateFarmer without code: %v", err)
	}
	if _, err := CreateFarmer(ctx, database, "Fourth", "", ""); err != nil {
		t.Fatalf("CreateFarmer without code: %v", err)
	}
}

func TestListFarmersByCluster(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateFarmer(ctx, database, "Amina", "north", "")
	CreateFarmer(ctx, database, "Joseph", "south", "")
	CreateFarmer(ctx, database, "Grace", "north", "")

	north, _ := ListFarmers(ctx, database, "north")
	if len(north) != 2 {
		t.Errorf("expected 2 farmers in north, got %d", len(north))
	}

	all, _ := ListFarmers(ctx, database, "")
	if len(all) != 3 {
		t.Errorf("expected 3 farmers, got %d", len(all))
	}
}

func TestSoftDeleteFarmer(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	farmer, _ := CreateFarmer(ctx, database, "Leaving", "", "")
	DeleteFarmer(ctx, database, farmer.ID)

	farmers, _ := ListFarmers(ctx, database, "")
	if len(farmers) != 0 {
		t.Errorf("expected 0 farmers after soft delete, got %d", len(farmers))
	}
}
