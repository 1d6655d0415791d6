package auth

import "context"

type contextKey int

const profileKey contextKey = iota

// ContextWithProfile returns a context carrying the authenticated profile.
func ContextWithProfile(ctx context.Context, profile *Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// ProfileFromContext returns the authenticated profile, or nil when the
// request did not pass authentication middleware.
func ProfileFromContext(ctx context.Context) *Profile {
	profile, _ := ctx.Value(profileKey).(*Profile)
	return profile
}
