package jwtkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlgorithmClassification(t *testing.T) {
	tests := []struct {
		alg    string
		family Family
	}{
		{"HS256", FamilyHMAC},
		{"HS384", FamilyHMAC},
		{"HS512", FamilyHMAC},
		{"RS256", FamilyRSA},
		{"RS384", FamilyRSA},
		{"RS512", FamilyRSA},
		{"ES256", FamilyECDSA},
		{"ES384", FamilyECDSA},
		{"ES512", FamilyUnsupported},
		{"PS256", FamilyUnsupported},
		{"EdDSA", FamilyUnsupported},
		{"none", FamilyUnsupported},
		{"hs256", FamilyUnsupported},
		{" HS256", FamilyUnsupported},
		{"", FamilyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.alg, func(t *testing.T) {
			assert.Equal(t, tt.family, FamilyOf(tt.alg))
			assert.Equal(t, tt.family, Algorithm(tt.alg).Family())
			assert.Equal(t, tt.family != FamilyUnsupported, Algorithm(tt.alg).Supported())

			// the three predicates partition the supported set
			matches := 0
			for _, is := range []func(string) bool{IsHMACAlgorithm, IsRSAAlgorithm, IsECDSAAlgorithm} {
				if is(tt.alg) {
					matches++
				}
			}
			if tt.family == FamilyUnsupported {
				assert.Zero(t, matches)
			} else {
				assert.Equal(t, 1, matches)
			}

			assert.Equal(t, tt.family == FamilyHMAC, IsHMACAlgorithm(tt.alg))
			assert.Equal(t, tt.family == FamilyRSA, IsRSAAlgorithm(tt.alg))
			assert.Equal(t, tt.family == FamilyECDSA, IsECDSAAlgorithm(tt.alg))
		})
	}
}

func TestAlgorithms(t *testing.T) {
	assert.Equal(t, []Algorithm{ES256, ES384, HS256, HS384, HS512, RS256, RS384, RS512}, Algorithms())
	assert.Equal(t, "RS384", RS384.String())
}

func TestIsValidPEMFormat(t *testing.T) {
	loadTestKeys(t)

	tests := []struct {
		name string
		pem  string
		want bool
	}{
		{"private key", rsaKeys.privatePEM, true},
		{"public key", p256Keys.publicPEM, true},
		{"surrounding whitespace", "\n  " + p384Keys.publicPEM + "\n\n", true},
		{"garbage body", "-----BEGIN PUBLIC KEY-----\nnot base64 at all\n-----END PUBLIC KEY-----", true},
		{"empty", "", false},
		{"secret", "my-shared-secret", false},
		{"missing end", "-----BEGIN PUBLIC KEY-----\nabc\n", false},
		{"missing begin", "abc\n-----END PUBLIC KEY-----", false},
		{"no body", "-----BEGIN PUBLIC KEY----------END PUBLIC KEY-----", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPEMFormat(tt.pem))
		})
	}
}
