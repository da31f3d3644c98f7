package fieldops

import "context"

type ctxKey string

const (
	ctxKeyProfile  ctxKey = "fieldops_profile"
	ctxKeyTenantID ctxKey = "fieldops_tenant_id"
	ctxKeyToken    ctxKey = "fieldops_token"
)

// WithProfile stores the authenticated profile in the context.
func WithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, ctxKeyProfile, p)
}

// ProfileFromContext extracts the authenticated profile from the context.
func ProfileFromContext(ctx context.Context) *Profile {
	v, _ := ctx.Value(ctxKeyProfile).(*Profile)
	return v
}

// WithTenantID stores the tenant ID in the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKeyTenantID, tenantID)
}

// TenantIDFromContext extracts the tenant ID from the context.
func TenantIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyTenantID).(string)
	return v
}

// WithToken stores the bearer token in the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyToken, token)
}

// TokenFromContext extracts the bearer token from the context.
func TokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyToken).(string)
	return v
}
