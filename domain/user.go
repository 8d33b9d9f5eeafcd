package domain

import "time"

// User represents an authenticated identity. Profile fields come from the
// OAuth provider on login; the id is the provider-scoped subject.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
