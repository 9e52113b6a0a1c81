package models

import "time"

// Account represents a row in the accounts table. Accounts are created
// out-of-band (see cmd/adduser) and are immutable through the API.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never serialize
	CreatedAt time.Time `json:"created_at"`
}
