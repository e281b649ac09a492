package entity

import "time"

// City belongs to exactly one state. Population must stay strictly greater
// than AdultMales+AdultFemales.
type City struct {
	ID           string
	Name         string
	CityCode     string
	PhoneCode    string
	Population   int64
	AvgAge       float64
	AdultMales   int64
	AdultFemales int64
	StateID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
