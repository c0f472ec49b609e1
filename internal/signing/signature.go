package signing

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var strictRawURL = base64.RawURLEncoding.Strict()

// EncodeSignature base64url-encodes raw signature bytes without padding.
func EncodeSignature(sig []byte) string {
	return base64.RawURLEncoding.EncodeToString(sig)
}

// DecodeSignature decodes a signature segment. Trailing padding is tolerated,
// non-zero trailing bits are not, so every bit of the segment is significant.
func DecodeSignature(segment string) ([]byte, error) {
	sig, err := strictRawURL.DecodeString(strings.TrimRight(segment, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed signature: %v", ErrSignatureInvalid, err)
	}
	return sig, nil
}

// classifyProviderError maps errors from the crypto provider onto this
// package's sentinels.
func classifyProviderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrInvalidKeyType), errors.Is(err, jwt.ErrInvalidKey):
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	case errors.Is(err, jwt.ErrHashUnavailable):
		return fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)
	default:
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
}
