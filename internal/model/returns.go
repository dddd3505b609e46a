package model

import "time"

// ReturnRecord represents a farmer-initiated return of previously
// disbursed goods. It starts pending and is moved between reviewer
// statuses; stock is credited only while the status is "returned".
type ReturnRecord struct {
	ID             int64     `json:"id"`
	DisbursementID int64     `json:"disbursement_id"`
	ItemID         int64     `json:"item_id"`
	FarmerID       int64     `json:"farmer_id"`
	Quantity       int       `json:"quantity"`
	Reason         string    `json:"reason,omitempty"`
	Cluster        string    `json:"cluster,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ItemName   string `json:"item_name,omitempty"`
	FarmerName string `json:"farmer_name,omitempty"`
}

// Return statuses.
const (
	ReturnStatusPending  = "pending"
	ReturnStatusReturned = "returned"
	ReturnStatusOnHold   = "on_hold"
	ReturnStatusRejected = "rejected"
)

// ValidReturnDecision reports whether s is a status a reviewer may move a
// return to. Pending is the creation state only.
func ValidReturnDecision(s string) bool {
	switch s {
	case ReturnStatusReturned, ReturnStatusOnHold, ReturnStatusRejected:
		return true
	}
	return false
}
