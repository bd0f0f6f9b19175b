package service

import "context"

type ipCtxKey struct{}

// WithClientIP stashes the caller's address for the audit trail.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipCtxKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(ipCtxKey{}).(string); ok {
		return v
	}
	return ""
}
