package crypto

import (
	"bytes"
	"testing"
)

func TestCanonicalizeJSONRejectsInvalidJSON(t *testing.T) {
	jsonData := []byte(`{"test": "value"`)
	_, err := CanonicalizeJSON(jsonData)
	if err == nil {
		t.Fatalf("CanonicalizeJSON() expected error, got nil")
	}
}

// the verifier depends on the canonical form being identical regardless of
// how the body was whitespace-formatted in transit
func TestCanonicalizeJSONStripsWhitespace(t *testing.T) {
	pretty := []byte("{\n  \"b\": 1,\n  \"a\": \"x\"\n}")
	compact := []byte(`{"b":1,"a":"x"}`)

	got, err := CanonicalizeJSON(pretty)
	if err != nil {
		t.Fatalf("CanonicalizeJSON(pretty) error: %v", err)
	}
	if !bytes.Equal(got, compact) {
		t.Errorf("CanonicalizeJSON(pretty) = %q, want %q", got, compact)
	}
}

// the platform signs keys in the sender's order, not sorted order, so the
// canonical form must preserve it
func TestCanonicalizeJSONPreservesKeyOrder(t *testing.T) {
	wire := []byte(`{"notificationType":"transactions.inbound","notification":{"id":"tx-1"},"timestamp":"2024-05-01T12:00:00Z"}`)

	got, err := CanonicalizeJSON(wire)
	if err != nil {
		t.Fatalf("CanonicalizeJSON() error: %v", err)
	}
	if !bytes.Equal(got, wire) {
		t.Errorf("canonical form re-ordered an already-compact body:\n got %q\nwant %q", got, wire)
	}
}
