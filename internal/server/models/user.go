package models

import "time"

// User is the identity embedded into access token claims. The token core
// only reads it; it is owned by the identity source.
type User struct {
	ID        string
	Email     string
	Role      string
	Name      string
	CreatedAt time.Time
}
