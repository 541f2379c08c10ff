package auth

import "context"

// Principal is the authenticated identity attached to request contexts by the
// API middleware. OrganizationID is nil for users without a tenant binding,
// which in practice means super admins.
type Principal struct {
	UserID         int64
	Username       string
	Email          string
	RoleID         int64
	IsSuperAdmin   bool
	OrganizationID *int64
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
