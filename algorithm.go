package jwtkit

import (
	"github.com/cybergodev/jwtkit/internal/signing"
)

// Algorithm is a JWS algorithm identifier as it appears in the "alg" header.
type Algorithm string

const (
	HS256 Algorithm = "HS256" // HMAC using SHA-256
	HS384 Algorithm = "HS384" // HMAC using SHA-384
	HS512 Algorithm = "HS512" // HMAC using SHA-512

	RS256 Algorithm = "RS256" // RSASSA-PKCS1-v1_5 using SHA-256
	RS384 Algorithm = "RS384" // RSASSA-PKCS1-v1_5 using SHA-384
	RS512 Algorithm = "RS512" // RSASSA-PKCS1-v1_5 using SHA-512

	ES256 Algorithm = "ES256" // ECDSA using P-256 and SHA-256
	ES384 Algorithm = "ES384" // ECDSA using P-384 and SHA-384
)

// Family groups algorithms that take the same kind of key.
type Family string

const (
	FamilyHMAC        Family = Family(signing.FamilyHMAC)
	FamilyRSA         Family = Family(signing.FamilyRSA)
	FamilyECDSA       Family = Family(signing.FamilyECDSA)
	FamilyUnsupported Family = Family(signing.FamilyUnsupported)
)

// FamilyOf classifies alg. The match is exact: "hs256" is unsupported.
func FamilyOf(alg string) Family {
	return Family(signing.FamilyOf(alg))
}

// Family returns the family a is part of.
func (a Algorithm) Family() Family {
	return FamilyOf(string(a))
}

// Supported reports whether a is one of the eight known algorithms.
func (a Algorithm) Supported() bool {
	return a.Family() != FamilyUnsupported
}

func (a Algorithm) String() string {
	return string(a)
}

// Algorithms returns every supported algorithm, sorted by name.
func Algorithms() []Algorithm {
	names := signing.Algorithms()
	algs := make([]Algorithm, len(names))
	for i, name := range names {
		algs[i] = Algorithm(name)
	}
	return algs
}

// IsHMACAlgorithm reports whether alg is HS256, HS384 or HS512.
func IsHMACAlgorithm(alg string) bool {
	return FamilyOf(alg) == FamilyHMAC
}

// IsRSAAlgorithm reports whether alg is RS256, RS384 or RS512.
func IsRSAAlgorithm(alg string) bool {
	return FamilyOf(alg) == FamilyRSA
}

// IsECDSAAlgorithm reports whether alg is ES256 or ES384.
func IsECDSAAlgorithm(alg string) bool {
	return FamilyOf(alg) == FamilyECDSA
}

// IsValidPEMFormat reports whether pem, once trimmed, starts with a
// "-----BEGIN " line and ends with an "-----END ...-----" line. The body is
// not decoded.
func IsValidPEMFormat(pem string) bool {
	return signing.LooksLikePEM(pem)
}
