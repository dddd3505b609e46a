package model

import "time"

// DisbursementRecord is an immutable record of goods given to a farmer.
// Creating one decrements the referenced item's quantity by the same
// amount, within the same transaction.
type DisbursementRecord struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"item_id"`
	FarmerID    int64     `json:"farmer_id"`
	StaffID     int64     `json:"staff_id"`
	Quantity    int       `json:"quantity"`
	DisbursedAt time.Time `json:"disbursed_at"`

	// Joined fields (not always populated).
	ItemName   string `json:"item_name,omitempty"`
	FarmerName string `json:"farmer_name,omitempty"`
	StaffName  string `json:"staff_name,omitempty"`
}
