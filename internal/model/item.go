package model

import "time"

// Item represents a stocked, consumable good.
//
// Quantity is only ever written by the ledger engine; everything else may
// be edited through the regular item CRUD.
type Item struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Classification string     `json:"classification,omitempty"`
	Code           string     `json:"code,omitempty"`
	Quantity       int        `json:"quantity"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}
