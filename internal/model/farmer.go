package model

import "time"

// Farmer represents a registered program beneficiary. Code is the scan
// reference printed on the farmer's ID card.
type Farmer struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Cluster   string     `json:"cluster,omitempty"`
	Code      string     `json:"code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
