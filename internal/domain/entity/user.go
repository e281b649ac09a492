package entity

import "time"

// User owns zero or more countries. Passwords are stored as bcrypt
// hashes in Password.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
