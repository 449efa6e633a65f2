package auth

import "errors"

// ErrInvalidToken indicates the token failed signature, shape or expiry
// validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// LoginPath is the fixed redirect target carried by every authentication
// failure so the HTTP layer can redirect sessions uniformly.
const LoginPath = "/pages/account/login"

// Failure reasons. The strings are part of the contract; tests and logs
// distinguish failures by them.
const (
	ReasonNotAuthenticated  = "Not authenticated"
	ReasonInvalidToken      = "Invalid or expired token"
	ReasonInvalidPayload    = "Invalid token payload"
	ReasonInactiveOrMissing = "contact inactive or not found"
)

// FailedError is returned by the resolver for every authentication
// failure. It is a tagged result, not a control-flow exception: the
// boundary layer turns it into a redirect.
type FailedError struct {
	Reason     string
	RedirectTo string
}

func (e *FailedError) Error() string {
	return "auth: " + e.Reason
}

func failure(reason string) *FailedError {
	return &FailedError{Reason: reason, RedirectTo: LoginPath}
}
