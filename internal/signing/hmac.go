package signing

import (
	"crypto"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cybergodev/jwtkit/internal/security"
)

type hmacSigningMethod struct {
	provider *jwt.SigningMethodHMAC
}

var (
	hmacHS256 = &hmacSigningMethod{jwt.SigningMethodHS256}
	hmacHS384 = &hmacSigningMethod{jwt.SigningMethodHS384}
	hmacHS512 = &hmacSigningMethod{jwt.SigningMethodHS512}
)

func (h *hmacSigningMethod) Alg() string       { return h.provider.Alg() }
func (h *hmacSigningMethod) Family() Family    { return FamilyHMAC }
func (h *hmacSigningMethod) Hash() crypto.Hash { return h.provider.Hash }

// SigningKey copies secret into a SecureBytes. Release it with ReleaseKey.
func (h *hmacSigningMethod) SigningKey(secret string) (any, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: HMAC secret cannot be empty", ErrInvalidKey)
	}
	if LooksLikePEM(secret) {
		return nil, fmt.Errorf("%w: HMAC requires a shared secret, got a PEM block", ErrInvalidKey)
	}
	return security.NewSecureBytesFromString(secret), nil
}

func (h *hmacSigningMethod) VerifyingKey(secret string) (any, error) {
	return h.SigningKey(secret)
}

func (h *hmacSigningMethod) Sign(signingInput string, key any) (string, error) {
	secureKey, err := hmacKey(key)
	if err != nil {
		return "", err
	}
	defer secureKey.Destroy()

	signature, err := h.provider.Sign(signingInput, secureKey.Bytes())
	if err != nil {
		return "", classifyProviderError(err)
	}
	defer security.ZeroBytes(signature)

	return EncodeSignature(signature), nil
}

// Verify recomputes the MAC and compares in constant time.
func (h *hmacSigningMethod) Verify(signingInput string, signature string, key any) error {
	secureKey, err := hmacKey(key)
	if err != nil {
		return err
	}
	defer secureKey.Destroy()

	sigBytes, err := DecodeSignature(signature)
	if err != nil {
		return err
	}
	defer security.ZeroBytes(sigBytes)

	return classifyProviderError(h.provider.Verify(signingInput, sigBytes, secureKey.Bytes()))
}

// hmacKey returns a private copy of the secret so it can be zeroed after use
// without touching the caller's buffer.
func hmacKey(key any) (*security.SecureBytes, error) {
	var secureKey *security.SecureBytes
	switch k := key.(type) {
	case *security.SecureBytes:
		secureKey = security.NewSecureBytesFromSlice(k.Bytes())
	case []byte:
		secureKey = security.NewSecureBytesFromSlice(k)
	case string:
		// strings are immutable, only the copy can be zeroed
		secureKey = security.NewSecureBytesFromString(k)
	default:
		return nil, fmt.Errorf("%w: HMAC key must be []byte or string, got %T", ErrInvalidKey, key)
	}

	if secureKey.Len() == 0 {
		secureKey.Destroy()
		return nil, fmt.Errorf("%w: HMAC secret cannot be empty", ErrInvalidKey)
	}
	return secureKey, nil
}
