package domain

import "time"

// User represents a registered account.
//
// Password holds the bcrypt hash and is never serialized: profile
// responses must not leak the stored credential.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
