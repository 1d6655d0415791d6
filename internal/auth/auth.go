// Package auth validates the identity tokens end users present to the
// gateway.
//
// Tokens are OpenID Connect ID tokens (e.g. issued by Google sign-in). They
// are verified against the issuer's JWKS, which is fetched and refreshed
// through a cache so each request does not trigger a key fetch.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Profile identifies an authenticated end user.
//
// ID is the user's email address - it doubles as the platform user id, which
// is why webhooks can address notification emails by user id.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Authenticator validates an identity token and returns the user profile.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*Profile, error)
}

// IDTokenAuthenticator validates ID tokens against a JWKS endpoint.
type IDTokenAuthenticator struct {
	jwksURL  string
	audience string
	cache    *jwk.Cache
	logger   *slog.Logger
}

// NewIDTokenAuthenticator creates an authenticator backed by the given JWKS
// endpoint. The endpoint is registered with a refreshing cache; ctx bounds
// the lifetime of the background refresh.
//
// audience, when non-empty, is required to appear in the token's aud claim.
func NewIDTokenAuthenticator(ctx context.Context, jwksURL, audience string, logger *slog.Logger) (*IDTokenAuthenticator, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS cache: %w", err)
	}

	if err := cache.Register(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("failed to register JWKS endpoint %s: %w", jwksURL, err)
	}

	return &IDTokenAuthenticator{
		jwksURL:  jwksURL,
		audience: audience,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Authenticate parses and validates credential, returning the profile claims
// embedded in the token. Expired, unsigned, or otherwise invalid tokens
// return an error.
func (a *IDTokenAuthenticator) Authenticate(ctx context.Context, credential string) (*Profile, error) {
	if credential == "" {
		return nil, fmt.Errorf("missing credential")
	}

	keySet, err := a.cache.Lookup(ctx, a.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up JWKS: %w", err)
	}

	opts := []jwt.ParseOption{
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	token, err := jwt.Parse([]byte(credential), opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}

	var profile Profile
	if err := token.Get("email", &profile.ID); err != nil {
		return nil, fmt.Errorf("identity token has no email claim: %w", err)
	}

	// name and picture are optional profile decoration
	_ = token.Get("name", &profile.Name)
	_ = token.Get("picture", &profile.Picture)

	a.logger.Debug("identity token validated", slog.String("user", profile.ID))
	return &profile, nil
}
