package entity

// CountryTree is a country plus its full subtree of states and cities,
// treated as one write unit by the nested endpoints.
type CountryTree struct {
	Country
	States []*StateTree
}

// StateTree is a state plus its cities.
type StateTree struct {
	State
	Cities []*City
}
