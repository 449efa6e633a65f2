// Package httpapi binds the identity resolver and the repositories to
// HTTP endpoints.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"contactdesk.org/internal/auth"
	"contactdesk.org/internal/obs"
)

// Options configures the API surface.
type Options struct {
	Version      string
	CookieSecure bool
	TokenTTL     time.Duration
}

// API is the HTTP layer.
type API struct {
	mux      *http.ServeMux
	db       *sql.DB
	tokens   *auth.Issuer
	resolver *auth.Resolver

	version      string
	cookieSecure bool
	tokenTTL     time.Duration

	rateBurst  int
	ratePerSec int
}

// New wires the routes. The *sql.DB is the process-wide pool constructed
// once in main.
func New(db *sql.DB, tokens *auth.Issuer, resolver *auth.Resolver, opts Options) *API {
	a := &API{
		mux:          http.NewServeMux(),
		db:           db,
		tokens:       tokens,
		resolver:     resolver,
		version:      opts.Version,
		cookieSecure: opts.CookieSecure,
		tokenTTL:     opts.TokenTTL,
		rateBurst:    20,
		ratePerSec:   10,
	}

	// health/ready
	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReady)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// accounts
	a.mux.HandleFunc("/api/account/signup", a.handleSignup)
	a.mux.HandleFunc("/api/account/login", a.handleLogin)
	a.mux.HandleFunc("/account/logout", a.handleLogout)
	a.mux.HandleFunc("/menu", a.handleMenu)

	// contacts (cookie-authenticated)
	a.mux.HandleFunc("/api/contacts/create", a.handleContactsCreate)
	a.mux.HandleFunc("/api/contacts/delete", a.handleContactsDelete)
	a.mux.HandleFunc("/api/contacts/all", a.handleContactsAll)
	a.mux.HandleFunc("/api/filters/age/above", a.handleFilterAgeAbove)
	a.mux.HandleFunc("/api/filters/age/between", a.handleFilterAgeBetween)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "contactdesk-api",
			"version": a.version,
		})
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = LoggingJSON(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "contactdesk-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		if err := a.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// handleMenu is the post-login landing target.
func (a *API) handleMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// inTx runs fn inside one transaction: commit on success, rollback on any
// error.
func (a *API) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
