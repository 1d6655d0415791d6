package crypto

import (
	"errors"
	"testing"
)

// check to ensure error code handling has not been broken
func TestCryptoError_Code(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"validation", NewValidationError("test"), ErrCodeValidation},
		{"signature", NewSignatureError("test"), ErrCodeInvalidSignature},
		{"key_management", NewKeyManagementError("test"), ErrCodeKeyManagement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cryptoErr *CryptoError
			if !errors.As(tt.err, &cryptoErr) {
				t.Fatal("error is not a CryptoError")
			}
			if cryptoErr.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q", cryptoErr.Code(), tt.wantCode)
			}
		})
	}
}

func TestCryptoError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapKeyManagementError(cause, "failed to fetch signing key")

	if !errors.Is(err, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}

	var cryptoErr *CryptoError
	if !errors.As(err, &cryptoErr) {
		t.Fatal("error is not a CryptoError")
	}
	if cryptoErr.Code() != ErrCodeKeyManagement {
		t.Errorf("Code() = %q, want %q", cryptoErr.Code(), ErrCodeKeyManagement)
	}
}
