package model

import "time"

// ApprovalRequest is a batch item request submitted by a farmer. Lines
// are editable while pending; approval and rejection are terminal.
// Approval certifies that disbursement may proceed, it does not move
// stock itself.
type ApprovalRequest struct {
	ID          int64         `json:"id"`
	RequesterID int64         `json:"requester_id"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
	Lines       []RequestLine `json:"lines,omitempty"`

	// Joined fields (not always populated).
	RequesterName string `json:"requester_name,omitempty"`
}

// RequestLine is one (item, quantity) pair of an approval request.
type RequestLine struct {
	ID       int64 `json:"id,omitempty"`
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
}

// Request statuses.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)
