// Package store implements the account and contact repositories over a
// relational database.
package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories run either
// directly against the pool or inside a unit-of-work transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AccountStore manages account rows.
type AccountStore interface {
	Create(ctx context.Context, username, email, hashedPassword string) (*Account, error)
	Exists(ctx context.Context, email, username string) (bool, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*Account, error)
}

// ContactStore manages contact rows. Deletion is ownership-scoped; reads
// are not.
type ContactStore interface {
	Exists(ctx context.Context, id int64, email string) (bool, error)
	Add(ctx context.Context, c *Contact) (*Contact, error)
	FindByID(ctx context.Context, id int64) (*Contact, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error)
	List(ctx context.Context) ([]*Contact, error)
	ListAboveAge(ctx context.Context, years int) ([]*Contact, error)
	ListBetweenAge(ctx context.Context, minYears, maxYears int) ([]*Contact, error)
}
