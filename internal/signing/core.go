package signing

import (
	"crypto"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidKey           = errors.New("invalid key")
	ErrSignatureInvalid     = errors.New("signature verification failed")
)

// Family groups algorithms that share key material and primitives.
type Family string

const (
	FamilyHMAC        Family = "HMAC"
	FamilyRSA         Family = "RSA"
	FamilyECDSA       Family = "ECDSA"
	FamilyUnsupported Family = "unsupported"
)

// Method represents a signing method for JWT tokens.
type Method interface {
	Alg() string
	Family() Family
	Hash() crypto.Hash

	// SigningKey and VerifyingKey turn textual key material (a shared secret
	// or a PEM block) into the key value Sign and Verify expect.
	SigningKey(material string) (any, error)
	VerifyingKey(material string) (any, error)

	// Sign returns the base64url encoded signature of signingInput.
	Sign(signingInput string, key any) (string, error)
	Verify(signingInput string, signature string, key any) error
}

var methods = map[string]Method{
	hmacHS256.Alg():  hmacHS256,
	hmacHS384.Alg():  hmacHS384,
	hmacHS512.Alg():  hmacHS512,
	rsaRS256.Alg():   rsaRS256,
	rsaRS384.Alg():   rsaRS384,
	rsaRS512.Alg():   rsaRS512,
	ecdsaES256.Alg(): ecdsaES256,
	ecdsaES384.Alg(): ecdsaES384,
}

// GetMethod returns the method registered for alg. Lookup is case sensitive.
func GetMethod(alg string) (Method, error) {
	if m, ok := methods[alg]; ok {
		return m, nil
	}
	if alg == "" {
		return nil, fmt.Errorf("%w: algorithm cannot be empty", ErrUnsupportedAlgorithm)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
}

// FamilyOf classifies alg. Unknown names map to FamilyUnsupported.
func FamilyOf(alg string) Family {
	if m, ok := methods[alg]; ok {
		return m.Family()
	}
	return FamilyUnsupported
}

// Algorithms lists every registered algorithm name in sorted order.
func Algorithms() []string {
	algs := make([]string, 0, len(methods))
	for alg := range methods {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	return algs
}

// SignedString signs signingInput and returns the complete compact token.
func SignedString(signingInput string, method Method, key any) (string, error) {
	signature, err := method.Sign(signingInput, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	tokenBuf := make([]byte, len(signingInput)+1+len(signature))
	copy(tokenBuf, signingInput)
	tokenBuf[len(signingInput)] = '.'
	copy(tokenBuf[len(signingInput)+1:], signature)

	return string(tokenBuf), nil
}
