package auth

import (
	"context"

	"contactdesk.org/internal/store"
)

type accountContextKey struct{}

// ContextWithAccount attaches the authenticated account to the context.
func ContextWithAccount(ctx context.Context, account *store.Account) context.Context {
	if account == nil {
		return ctx
	}
	return context.WithValue(ctx, accountContextKey{}, account)
}

// AccountFromContext extracts the authenticated account from the context.
func AccountFromContext(ctx context.Context) (*store.Account, bool) {
	if ctx == nil {
		return nil, false
	}
	account, ok := ctx.Value(accountContextKey{}).(*store.Account)
	if !ok || account == nil {
		return nil, false
	}
	return account, true
}
