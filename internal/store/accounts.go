package store

import (
	"context"
	"database/sql"
	"errors"
)

var _ AccountStore = (*Accounts)(nil)

// Accounts is the PostgreSQL account repository.
type Accounts struct {
	db DBTX
}

// NewAccounts constructs the repository over a pool or transaction.
func NewAccounts(db DBTX) *Accounts {
	return &Accounts{db: db}
}

const accountColumns = `id, username, email, hashed_password, role, is_active, created_at`

// Create inserts a new account with defaults (role=user, active) and
// returns the persisted row including the generated id.
func (s *Accounts) Create(ctx context.Context, username, email, hashedPassword string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`insert into accounts(username, email, hashed_password)
		 values($1,$2,$3)
		 returning `+accountColumns,
		username, email, hashedPassword,
	)
	return scanAccount(row)
}

// Exists reports whether any account matches the email or the username.
// Callers run it before Create; the unique constraints remain the backstop
// against concurrent inserts.
func (s *Accounts) Exists(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from accounts where email=$1 or username=$2)`,
		email, username,
	).Scan(&exists)
	return exists, err
}

func (s *Accounts) FindByID(ctx context.Context, id int64) (*Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id=$1`, id))
}

func (s *Accounts) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where username=$1`, username))
}

func (s *Accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where email=$1`, email))
}

// DeleteByID removes an account, reporting whether a row was deleted.
func (s *Accounts) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from accounts where id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Accounts) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from accounts where username=$1`, username)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns all accounts. Order is not part of the contract.
func (s *Accounts) List(ctx context.Context) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx, `select `+accountColumns+` from accounts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.HashedPassword, &a.Role, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.HashedPassword, &a.Role, &a.Active, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
