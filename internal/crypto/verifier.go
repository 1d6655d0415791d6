package crypto

// verifier.go implements the webhook signature trust gate.
//
// The key id and signature arrive on attacker-controlled headers, so every
// step fails closed: a network failure fetching the key, malformed key
// material, a body that does not canonicalize, or a bad signature all produce
// a negative trust decision. No side effect may run before Verify returns
// true.

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"strings"
)

// KeyFetcher fetches the base64-encoded DER public key published for a key
// id. Implemented by circle.Client.
type KeyFetcher interface {
	FetchSigningKey(ctx context.Context, keyID string) (string, error)
}

// Verifier verifies webhook signatures against the platform's rotating
// signing keys.
//
// Keys are fetched fresh for every verification rather than cached: the
// platform may rotate keys at any time and a stale cache entry would reject
// genuine notifications. The cost is one extra round trip per webhook.
type Verifier struct {
	keys   KeyFetcher
	logger *slog.Logger
}

// NewVerifier creates a Verifier that resolves key ids through keys.
func NewVerifier(keys KeyFetcher, logger *slog.Logger) *Verifier {
	return &Verifier{keys: keys, logger: logger}
}

// Verify reports whether signatureB64 is a valid ECDSA-SHA256 signature over
// the canonical form of rawBody, using the public key published for keyID.
//
// The returned error carries diagnostic detail for logging; callers must
// treat any non-nil error as "not verified" and take no action on the
// payload.
func (v *Verifier) Verify(ctx context.Context, keyID string, rawBody []byte, signatureB64 string) (bool, error) {
	if keyID == "" {
		return false, NewValidationError("missing key id")
	}
	if signatureB64 == "" {
		return false, NewValidationError("missing signature")
	}

	material, err := v.keys.FetchSigningKey(ctx, keyID)
	if err != nil {
		return false, WrapKeyManagementError(err, "failed to fetch signing key")
	}

	der, err := DecodeBase64Key(material)
	if err != nil {
		return false, err
	}

	publicKey, err := ParseECPublicKey(der)
	if err != nil {
		return false, err
	}

	signature, err := decodeBase64Signature(signatureB64)
	if err != nil {
		return false, WrapValidationError(err, "signature is not valid base64")
	}

	canonical, err := CanonicalizeJSON(rawBody)
	if err != nil {
		return false, WrapValidationError(err, "webhook body is not valid JSON")
	}

	digest := sha256.Sum256(canonical)
	if !ecdsa.VerifyASN1(publicKey, digest[:], signature) {
		return false, NewSignatureError("signature does not match canonical body")
	}

	v.logger.Debug("webhook signature verified",
		slog.String("key_id", keyID),
	)
	return true, nil
}

// decodeBase64Signature decodes a signature in either the standard or
// URL-safe base64 alphabet, with or without padding. The platform's signature
// header carries standard base64, but URL-safe re-encodings show up in
// forwarded webhooks.
func decodeBase64Signature(encoded string) ([]byte, error) {
	trimmed := strings.TrimRight(encoded, "=")
	signature, err := base64.RawStdEncoding.DecodeString(trimmed)
	if err == nil {
		return signature, nil
	}
	return base64.RawURLEncoding.DecodeString(trimmed)
}
