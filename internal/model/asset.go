package model

import "time"

// Asset represents a reusable, non-consumable resource such as machinery.
// Available is false exactly while an open loan exists; it is only ever
// written by the lending state machine.
type Asset struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code,omitempty"`
	Condition string     `json:"condition"`
	Available bool       `json:"available"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Asset conditions.
const (
	AssetConditionGood        = "good"
	AssetConditionMaintenance = "maintenance"
	AssetConditionDamaged     = "damaged"
)

// AssetLoanRecord represents one lending episode of an asset to a farmer.
// A loan is open while ReturnedAt is nil.
type AssetLoanRecord struct {
	ID         int64      `json:"id"`
	AssetID    int64      `json:"asset_id"`
	FarmerID   int64      `json:"farmer_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Remarks    string     `json:"remarks,omitempty"`

	// Joined fields (not always populated).
	AssetName  string `json:"asset_name,omitempty"`
	FarmerName string `json:"farmer_name,omitempty"`
}

// Open reports whether the loan has not been returned yet.
func (l AssetLoanRecord) Open() bool {
	return l.ReturnedAt == nil
}
