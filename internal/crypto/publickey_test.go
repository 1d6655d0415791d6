package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"
)

func TestParseECPublicKey(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key pair: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}

	got, err := ParseECPublicKey(der)
	if err != nil {
		t.Fatalf("ParseECPublicKey() error: %v", err)
	}

	if got.X.Cmp(privateKey.PublicKey.X) != 0 || got.Y.Cmp(privateKey.PublicKey.Y) != 0 {
		t.Error("reconstructed point does not match the original key")
	}
}

func TestParseECPublicKeyRejectsOtherCurves(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key pair: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}

	if _, err := ParseECPublicKey(der); err == nil {
		t.Fatal("ParseECPublicKey() accepted a P-384 key")
	}
}

func TestParseECPublicKeyRejectsTrailingBytes(t *testing.T) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key pair: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}

	if _, err := ParseECPublicKey(append(der, 0x00)); err == nil {
		t.Fatal("ParseECPublicKey() accepted trailing bytes")
	}
}

func TestDecodeBase64Key(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"standard alphabet", "aGVsbG8+Pw==", "hello>?", false},
		{"url alphabet", "aGVsbG8-Pw", "hello>?", false},
		{"empty", "", "", true},
		{"garbage", "!!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64Key(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecodeBase64Key() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBase64Key() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeBase64Key() = %q, want %q", got, tt.want)
			}
		})
	}
}
