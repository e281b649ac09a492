package entity

import "time"

// Country is the root of the geographic hierarchy. OwnerID mirrors the
// my_user column: nullable, set to nil when the owning user is deleted.
type Country struct {
	ID          string
	Name        string
	CountryCode string
	CurrSymbol  string
	PhoneCode   string
	OwnerID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
