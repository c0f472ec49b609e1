package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ecdsaSigningMethod struct {
	provider *jwt.SigningMethodECDSA
	curve    elliptic.Curve
}

var (
	ecdsaES256 = &ecdsaSigningMethod{jwt.SigningMethodES256, elliptic.P256()}
	ecdsaES384 = &ecdsaSigningMethod{jwt.SigningMethodES384, elliptic.P384()}
)

func (e *ecdsaSigningMethod) Alg() string       { return e.provider.Alg() }
func (e *ecdsaSigningMethod) Family() Family    { return FamilyECDSA }
func (e *ecdsaSigningMethod) Hash() crypto.Hash { return e.provider.Hash }

// SigningKey parses a PEM private key (PKCS#8 or SEC1) on the curve the
// algorithm requires.
func (e *ecdsaSigningMethod) SigningKey(material string) (any, error) {
	if !LooksLikePEM(material) {
		return nil, fmt.Errorf("%w: EC private key must be PEM encoded", ErrInvalidKey)
	}

	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(strings.TrimSpace(material)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if err := e.checkCurve(key.Curve); err != nil {
		return nil, err
	}
	return key, nil
}

func (e *ecdsaSigningMethod) VerifyingKey(material string) (any, error) {
	if !LooksLikePEM(material) {
		return nil, fmt.Errorf("%w: EC public key must be PEM encoded", ErrInvalidKey)
	}

	key, err := jwt.ParseECPublicKeyFromPEM([]byte(strings.TrimSpace(material)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if err := e.checkCurve(key.Curve); err != nil {
		return nil, err
	}
	return key, nil
}

// Sign produces the fixed width R||S signature used by JWS.
func (e *ecdsaSigningMethod) Sign(signingInput string, key any) (string, error) {
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return "", fmt.Errorf("%w: ECDSA sign key must be *ecdsa.PrivateKey, got %T", ErrInvalidKey, key)
	}
	if err := e.checkCurve(privateKey.Curve); err != nil {
		return "", err
	}

	signature, err := e.provider.Sign(signingInput, privateKey)
	if err != nil {
		return "", classifyProviderError(err)
	}
	return EncodeSignature(signature), nil
}

func (e *ecdsaSigningMethod) Verify(signingInput string, signature string, key any) error {
	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: ECDSA verify key must be *ecdsa.PublicKey, got %T", ErrInvalidKey, key)
	}
	if err := e.checkCurve(publicKey.Curve); err != nil {
		return err
	}

	sigBytes, err := DecodeSignature(signature)
	if err != nil {
		return err
	}
	return classifyProviderError(e.provider.Verify(signingInput, sigBytes, publicKey))
}

func (e *ecdsaSigningMethod) checkCurve(curve elliptic.Curve) error {
	if curve == nil || curve.Params().Name != e.curve.Params().Name {
		got := "unknown"
		if curve != nil {
			got = curve.Params().Name
		}
		return fmt.Errorf("%w: %s requires curve %s, got %s", ErrInvalidKey, e.Alg(), e.curve.Params().Name, got)
	}
	return nil
}
