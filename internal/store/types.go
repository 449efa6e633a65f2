package store

import "time"

// Roles assignable to an account. New signups always start as RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is an identity record. Username and email are stored lower-cased;
// normalization happens at the boundary before any repository call.
type Account struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	Role           string
	Active         bool
	CreatedAt      time.Time
}

// Contact is a record owned by exactly one account. The id is caller
// supplied, not generated.
type Contact struct {
	ID          int64
	Name        string
	Email       string
	DateOfBirth time.Time
	Active      bool
	CreatedAt   time.Time
	OwnerID     int64
}
