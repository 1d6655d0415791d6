// publickey.go reconstructs the platform's webhook signing key from its wire
// encoding.
//
// The platform publishes the key as base64-encoded DER in SubjectPublicKeyInfo
// form (RFC 5480): an algorithm identifier naming the curve, followed by a BIT
// STRING holding the uncompressed EC point. The DER structure is decoded
// explicitly and the P-256 public key is rebuilt from the raw (x, y)
// coordinates.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"encoding/base64"
	"math/big"
	"strings"
)

// ecPublicKeyInfo mirrors the SubjectPublicKeyInfo layout for an EC key:
//
//	SEQUENCE {
//	    SEQUENCE { OBJECT IDENTIFIER id-ecPublicKey, OBJECT IDENTIFIER namedCurve }
//	    BIT STRING publicKey
//	}
type ecPublicKeyInfo struct {
	Algorithm ecAlgorithmIdentifier
	PublicKey asn1.BitString
}

type ecAlgorithmIdentifier struct {
	ID         asn1.ObjectIdentifier
	NamedCurve asn1.ObjectIdentifier
}

var (
	oidECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidCurveP256   = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
)

// uncompressed EC point: 0x04 prefix then 32-byte x and 32-byte y for P-256
const uncompressedPointLen = 65

// DecodeBase64Key decodes the platform's base64 key material into DER bytes.
// Both the standard and URL-safe alphabets are accepted, with or without
// padding.
func DecodeBase64Key(encoded string) ([]byte, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(encoded), "=")
	if trimmed == "" {
		return nil, NewValidationError("public key material is empty")
	}

	der, err := base64.RawStdEncoding.DecodeString(trimmed)
	if err == nil {
		return der, nil
	}
	der, err = base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, WrapValidationError(err, "public key is not valid base64")
	}
	return der, nil
}

// ParseECPublicKey decodes a DER-encoded SubjectPublicKeyInfo structure and
// reconstructs the P-256 public key from the raw curve point.
func ParseECPublicKey(der []byte) (*ecdsa.PublicKey, error) {
	var info ecPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to decode public key DER structure")
	}
	if len(rest) != 0 {
		return nil, NewKeyManagementError("trailing bytes after public key DER structure")
	}

	if !info.Algorithm.ID.Equal(oidECPublicKey) {
		return nil, NewKeyManagementError("public key algorithm is not id-ecPublicKey")
	}
	if !info.Algorithm.NamedCurve.Equal(oidCurveP256) {
		return nil, NewKeyManagementError("public key curve is not P-256")
	}

	point := info.PublicKey.RightAlign()
	if len(point) != uncompressedPointLen || point[0] != 0x04 {
		return nil, NewKeyManagementError("public key point is not an uncompressed P-256 point")
	}

	x := new(big.Int).SetBytes(point[1:33])
	y := new(big.Int).SetBytes(point[33:])

	curve := elliptic.P256()
	if !curve.IsOnCurve(x, y) {
		return nil, NewKeyManagementError("public key point is not on the P-256 curve")
	}

	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}
