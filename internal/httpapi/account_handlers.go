package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"contactdesk.org/internal/audit"
	"contactdesk.org/internal/auth"
	"contactdesk.org/internal/store"
)

const duplicateAccountMessage = "Account with this ID or Email already exists!"

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	username := normalize(req.Username)
	email := normalize(req.Email)
	if username == "" || email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username, email and password are required")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	var created *store.Account
	err = a.inTx(r.Context(), func(tx *sql.Tx) error {
		accounts := store.NewAccounts(tx)
		exists, err := accounts.Exists(r.Context(), email, username)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicate
		}
		created, err = accounts.Create(r.Context(), username, email, hashed)
		return err
	})
	switch {
	case errors.Is(err, errDuplicate):
		writeError(w, r, http.StatusBadRequest, duplicateAccountMessage)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "account.signup", map[string]any{
		"account_id": created.ID,
		"username":   created.Username,
	})

	writeJSON(w, http.StatusCreated, accountResponse{
		ID:        created.ID,
		Username:  created.Username,
		Email:     created.Email,
		Role:      created.Role,
		CreatedAt: created.CreatedAt.Format(time.DateOnly),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	username := normalize(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	account, err := store.NewAccounts(a.db).FindByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	// One rejection path for unknown user, wrong password and deactivated
	// account: no token is issued and the caller cannot tell which failed.
	if account == nil || !auth.VerifyPassword(req.Password, account.HashedPassword) || !account.Active {
		_ = audit.LogEvent(r.Context(), "account.login_failed", map[string]any{"username": username})
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := a.tokens.Issue(account.Email, map[string]any{
		"id":   account.ID,
		"role": account.Role,
	}, a.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "account.login", map[string]any{
		"account_id": account.ID,
		"username":   account.Username,
	})

	a.setSessionCookie(w, token)
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	a.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

var errDuplicate = errors.New("duplicate entity")

// normalize trims and lower-cases usernames and emails before any
// repository call; the storage layer matches exactly.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
