package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock.New")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unmet expectations")
		db.Close()
	})
	return db, mock
}

func accountRows(a *Account) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "hashed_password", "role", "is_active", "created_at",
	}).AddRow(a.ID, a.Username, a.Email, a.HashedPassword, a.Role, a.Active, a.CreatedAt)
}

func TestAccountsCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	created := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	want := &Account{
		ID: 7, Username: "ran", Email: "ran@example.com",
		HashedPassword: "$argon2id$stub", Role: RoleUser, Active: true, CreatedAt: created,
	}
	mock.ExpectQuery("insert into accounts").
		WithArgs("ran", "ran@example.com", "$argon2id$stub").
		WillReturnRows(accountRows(want))

	got, err := repo.Create(context.Background(), "ran", "ran@example.com", "$argon2id$stub")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, RoleUser, got.Role)
	assert.True(t, got.Active)
}

func TestAccountsExists(t *testing.T) {
	testCases := []struct {
		name   string
		exists bool
	}{
		{name: "match on email or username", exists: true},
		{name: "no match", exists: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAccounts(db)

			mock.ExpectQuery("select exists").
				WithArgs("ran@example.com", "ran").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))

			got, err := repo.Exists(context.Background(), "ran@example.com", "ran")
			require.NoError(t, err)
			assert.Equal(t, tc.exists, got)
		})
	}
}

func TestAccountsFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	want := &Account{
		ID: 3, Username: "dana", Email: "dana@example.com",
		HashedPassword: "h", Role: RoleAdmin, Active: true,
		CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	mock.ExpectQuery("select (.+) from accounts where id=").
		WithArgs(int64(3)).
		WillReturnRows(accountRows(want))

	got, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAccountsFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	mock.ExpectQuery("select (.+) from accounts where id=").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByID(context.Background(), 404)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountsFindByUsernameAndEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	want := &Account{
		ID: 9, Username: "ran", Email: "ran@example.com",
		HashedPassword: "h", Role: RoleUser, Active: false,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	mock.ExpectQuery("select (.+) from accounts where username=").
		WithArgs("ran").
		WillReturnRows(accountRows(want))
	mock.ExpectQuery("select (.+) from accounts where email=").
		WithArgs("ran@example.com").
		WillReturnRows(accountRows(want))

	byName, err := repo.FindByUsername(context.Background(), "ran")
	require.NoError(t, err)
	assert.Equal(t, want, byName)

	byMail, err := repo.FindByEmail(context.Background(), "ran@example.com")
	require.NoError(t, err)
	assert.Equal(t, want, byMail)
}

func TestAccountsDeleteByID(t *testing.T) {
	testCases := []struct {
		name    string
		rows    int64
		deleted bool
	}{
		{name: "row removed", rows: 1, deleted: true},
		{name: "nothing matched", rows: 0, deleted: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAccounts(db)

			mock.ExpectExec("delete from accounts where id=").
				WithArgs(int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tc.rows))

			deleted, err := repo.DeleteByID(context.Background(), 5)
			require.NoError(t, err)
			assert.Equal(t, tc.deleted, deleted)
		})
	}
}

func TestAccountsDeleteByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	mock.ExpectExec("delete from accounts where username=").
		WithArgs("ran").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteByUsername(context.Background(), "ran")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestAccountsList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	created := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "hashed_password", "role", "is_active", "created_at",
	}).
		AddRow(int64(1), "a", "a@example.com", "h1", RoleUser, true, created).
		AddRow(int64(2), "b", "b@example.com", "h2", RoleAdmin, false, created)
	mock.ExpectQuery("select (.+) from accounts").WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Username)
	assert.Equal(t, RoleAdmin, got[1].Role)
}

func TestAccountsStorageFailurePropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccounts(db)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("select exists").
		WithArgs("x@example.com", "x").
		WillReturnError(dbErr)

	_, err := repo.Exists(context.Background(), "x@example.com", "x")
	assert.ErrorIs(t, err, dbErr)
}
