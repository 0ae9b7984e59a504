package client

import "context"

type tokenKey struct{}

// ContextWithToken carries a per-call bearer token, e.g. the browser's token in the dashboard gateway.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
