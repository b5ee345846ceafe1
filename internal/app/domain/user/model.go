package user

import "time"

// User is a credential record. It is created at registration and only ever
// read back for login verification.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"` // bcrypt hash, never plaintext
	CreatedAt time.Time `json:"createdAt"`
}
