package models

import "time"

// User is a row of the users table. Password holds the credential exactly
// as it was registered (seeded bug: no hashing).
type User struct {
	ID        int64
	Username  string
	Password  string
	Email     string
	CreatedAt time.Time
}
