package entity

import "time"

// State belongs to exactly one country; deleting the country cascades here.
// GSTCode is optional but globally unique when present.
type State struct {
	ID        string
	Name      string
	StateCode string
	GSTCode   *string
	CountryID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
