package model

import "context"

// ContextManager stores the request's bearer token in its context.
type ContextManager interface {
	SetTokenToContext(ctx context.Context, token string) context.Context
	GetTokenFromContext(ctx context.Context) (string, bool)
}
