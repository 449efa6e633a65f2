package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var _ ContactStore = (*Contacts)(nil)

// Contacts is the PostgreSQL contact repository. The clock is injectable
// so age filters can be tested against a fixed "today".
type Contacts struct {
	db  DBTX
	now func() time.Time
}

// ContactsOption configures the repository.
type ContactsOption func(*Contacts)

// WithClock overrides the time source used for age cutoffs.
func WithClock(fn func() time.Time) ContactsOption {
	return func(c *Contacts) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewContacts constructs the repository over a pool or transaction.
func NewContacts(db DBTX, opts ...ContactsOption) *Contacts {
	c := &Contacts{db: db, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const contactColumns = `id, name, email, date_of_birth, is_active, created_at, owner_id`

// Exists reports whether any contact matches the id or the email. It is the
// pre-insert duplicate check; Add itself does not re-check.
func (s *Contacts) Exists(ctx context.Context, id int64, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from contacts where id=$1 or email=$2)`,
		id, email,
	).Scan(&exists)
	return exists, err
}

// Add inserts a contact with its caller-supplied id and returns the
// persisted row.
func (s *Contacts) Add(ctx context.Context, c *Contact) (*Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`insert into contacts(id, name, email, date_of_birth, owner_id)
		 values($1,$2,$3,$4,$5)
		 returning `+contactColumns,
		c.ID, c.Name, c.Email, c.DateOfBirth, c.OwnerID,
	)
	return scanContact(row)
}

func (s *Contacts) FindByID(ctx context.Context, id int64) (*Contact, error) {
	return scanContact(s.db.QueryRowContext(ctx,
		`select `+contactColumns+` from contacts where id=$1`, id))
}

// DeleteOwned removes the contact only when it exists and belongs to
// ownerID. This is the sole access-control point for contact mutation.
func (s *Contacts) DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`delete from contacts where id=$1 and owner_id=$2`, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns all contacts regardless of owner. Read access is not
// ownership-scoped.
func (s *Contacts) List(ctx context.Context) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx, `select `+contactColumns+` from contacts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// ListAboveAge returns contacts at least years old: born on or before
// today minus that many calendar years.
func (s *Contacts) ListAboveAge(ctx context.Context, years int) ([]*Contact, error) {
	cutoff := yearsBefore(s.now(), years)
	rows, err := s.db.QueryContext(ctx,
		`select `+contactColumns+` from contacts where date_of_birth <= $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// ListBetweenAge returns contacts whose age lies in the inclusive window
// [minYears, maxYears].
func (s *Contacts) ListBetweenAge(ctx context.Context, minYears, maxYears int) ([]*Contact, error) {
	now := s.now()
	oldestBirth := yearsBefore(now, maxYears)
	youngestBirth := yearsBefore(now, minYears)
	rows, err := s.db.QueryContext(ctx,
		`select `+contactColumns+` from contacts where date_of_birth >= $1 and date_of_birth <= $2`,
		oldestBirth, youngestBirth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// yearsBefore subtracts whole calendar years from t. Feb 29 clamps to
// Feb 28 in non-leap target years instead of rolling into March, which is
// what time.AddDate would do.
func yearsBefore(t time.Time, years int) time.Time {
	t = t.UTC()
	year := t.Year() - years
	month := t.Month()
	day := t.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func collectContacts(rows *sql.Rows) ([]*Contact, error) {
	var res []*Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.DateOfBirth, &c.Active, &c.CreatedAt, &c.OwnerID); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func scanContact(row *sql.Row) (*Contact, error) {
	var c Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.DateOfBirth, &c.Active, &c.CreatedAt, &c.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
