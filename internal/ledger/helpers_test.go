package ledger_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agristock/agristock/internal/db"
	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/model"
	"github.com/agristock/agristock/internal/store"
)

// fixture wires the ledger components against a real SQLite database,
// pre-seeded with one farmer and one staff member.
type fixture struct {
	db        *sql.DB
	engine    *ledger.Engine
	lending   *ledger.Lending
	approvals *ledger.Approvals
	farmer    *model.Farmer
	staff     *model.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	s := store.New(database)
	ctx := context.Background()

	farmer, err := store.CreateFarmer(ctx, database, "Amina Yusuf", "north", "F-001")
	require.NoError(t, err)
	staff, err := store.CreateStaff(ctx, database, "Joseph Okello", model.RoleField)
	require.NoError(t, err)

	return &fixture{
		db:        database,
		engine:    ledger.NewEngine(s, nil, nil),
		lending:   ledger.NewLending(s, nil, nil),
		approvals: ledger.NewApprovals(s, nil),
		farmer:    farmer,
		staff:     staff,
	}
}

// seedItem creates an item and stocks it to the given quantity.
func (f *fixture) seedItem(t *testing.T, name string, quantity int) *model.Item {
	t.Helper()
	ctx := context.Background()

	item, err := store.CreateItem(ctx, f.db, name, "input", "")
	require.NoError(t, err)
	if quantity > 0 {
		item, err = f.engine.AddStock(ctx, item.ID, quantity)
		require.NoError(t, err)
	}
	return item
}

// seedAsset creates an available asset.
func (f *fixture) seedAsset(t *testing.T, name string) *model.Asset {
	t.Helper()

	asset, err := store.CreateAsset(context.Background(), f.db, name, "", model.AssetConditionGood)
	require.NoError(t, err)
	return asset
}

// itemQuantity reads the item's current on-hand quantity.
func (f *fixture) itemQuantity(t *testing.T, itemID int64) int {
	t.Helper()

	item, err := store.GetItem(context.Background(), f.db, itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Quantity
}
