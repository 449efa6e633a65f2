package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"contactdesk.org/internal/auth"
	"contactdesk.org/internal/obs"
)

var publicPaths = []string{
	"/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/menu",
	"/api/account/signup",
	"/api/account/login",
	"/account/logout",
	auth.LoginPath,
}

// withAuth resolves the session cookie on protected paths and stores the
// acting account in the request context. Every authentication failure is
// answered the same way: a redirect to the login page, with the reason in
// the X-Auth-Reason header.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var cookieValue string
		if c, err := r.Cookie(sessionCookieName); err == nil {
			cookieValue = c.Value
		}

		account, err := a.resolver.Resolve(r.Context(), cookieValue)
		if err != nil {
			var failed *auth.FailedError
			if errors.As(err, &failed) {
				obs.CountAuthFailure(failed.Reason)
				w.Header().Set("X-Auth-Reason", failed.Reason)
				http.Redirect(w, r, failed.RedirectTo, http.StatusSeeOther)
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}

		ctx := auth.ContextWithAccount(r.Context(), account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return strings.HasPrefix(path, "/pages/account/")
}
