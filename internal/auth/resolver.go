package auth

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"contactdesk.org/internal/store"
)

// AccountSource is the slice of the account repository the resolver needs.
type AccountSource interface {
	FindByID(ctx context.Context, id int64) (*store.Account, error)
}

// Resolver turns a session cookie value into the acting account.
type Resolver struct {
	tokens   *Issuer
	accounts AccountSource
}

// NewResolver constructs a Resolver.
func NewResolver(tokens *Issuer, accounts AccountSource) *Resolver {
	return &Resolver{tokens: tokens, accounts: accounts}
}

// Resolve verifies the cookie token and loads the account it references,
// enforcing the active flag. Every authentication failure is a
// *FailedError carrying a reason and the login redirect target; storage
// faults propagate as-is.
//
// The account identifier comes from the "id" claim when present. When it
// is absent, "sub" is accepted as a fallback only if it parses as an
// integer; otherwise the payload is rejected. An "id" claim that cannot
// be coerced resolves as not-found rather than a payload error.
func (r *Resolver) Resolve(ctx context.Context, cookieValue string) (*store.Account, error) {
	if cookieValue == "" {
		return nil, failure(ReasonNotAuthenticated)
	}
	claims, err := r.tokens.Verify(cookieValue)
	if err != nil {
		return nil, failure(ReasonInvalidToken)
	}

	var id int64
	if raw, ok := claims["id"]; ok {
		id, ok = coerceID(raw)
		if !ok {
			return nil, failure(ReasonInactiveOrMissing)
		}
	} else {
		sub, _ := claims["sub"].(string)
		id, err = strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return nil, failure(ReasonInvalidPayload)
		}
	}

	account, err := r.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, failure(ReasonInactiveOrMissing)
		}
		return nil, err
	}
	if !account.Active {
		return nil, failure(ReasonInactiveOrMissing)
	}
	return account, nil
}

// coerceID converts the JSON-decoded claim value to an account id.
func coerceID(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		id, err := t.Int64()
		return id, err == nil
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
