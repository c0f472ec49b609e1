package signing

import (
	"crypto"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// MinRSAKeyBits is the smallest modulus accepted for RS256/384/512.
const MinRSAKeyBits = 2048

type rsaSigningMethod struct {
	provider *jwt.SigningMethodRSA
}

var (
	rsaRS256 = &rsaSigningMethod{jwt.SigningMethodRS256}
	rsaRS384 = &rsaSigningMethod{jwt.SigningMethodRS384}
	rsaRS512 = &rsaSigningMethod{jwt.SigningMethodRS512}
)

func (r *rsaSigningMethod) Alg() string       { return r.provider.Alg() }
func (r *rsaSigningMethod) Family() Family    { return FamilyRSA }
func (r *rsaSigningMethod) Hash() crypto.Hash { return r.provider.Hash }

// SigningKey parses a PEM private key. PKCS#8 is expected, PKCS#1 is
// accepted as well.
func (r *rsaSigningMethod) SigningKey(material string) (any, error) {
	if !LooksLikePEM(material) {
		return nil, fmt.Errorf("%w: RSA private key must be PEM encoded", ErrInvalidKey)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(strings.TrimSpace(material)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if err := checkRSASize(&key.PublicKey); err != nil {
		return nil, err
	}
	return key, nil
}

// VerifyingKey parses a PEM public key. SPKI is expected, PKCS#1 public
// keys and certificates are accepted as well.
func (r *rsaSigningMethod) VerifyingKey(material string) (any, error) {
	if !LooksLikePEM(material) {
		return nil, fmt.Errorf("%w: RSA public key must be PEM encoded", ErrInvalidKey)
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(strings.TrimSpace(material)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if err := checkRSASize(key); err != nil {
		return nil, err
	}
	return key, nil
}

func (r *rsaSigningMethod) Sign(signingInput string, key any) (string, error) {
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return "", fmt.Errorf("%w: RSA sign key must be *rsa.PrivateKey, got %T", ErrInvalidKey, key)
	}

	signature, err := r.provider.Sign(signingInput, privateKey)
	if err != nil {
		return "", classifyProviderError(err)
	}
	return EncodeSignature(signature), nil
}

func (r *rsaSigningMethod) Verify(signingInput string, signature string, key any) error {
	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: RSA verify key must be *rsa.PublicKey, got %T", ErrInvalidKey, key)
	}

	sigBytes, err := DecodeSignature(signature)
	if err != nil {
		return err
	}
	return classifyProviderError(r.provider.Verify(signingInput, sigBytes, publicKey))
}

func checkRSASize(key *rsa.PublicKey) error {
	if bits := key.N.BitLen(); bits < MinRSAKeyBits {
		return fmt.Errorf("%w: RSA key is %d bits, at least %d required", ErrInvalidKey, bits, MinRSAKeyBits)
	}
	return nil
}
