package jwtkit

import (
	"errors"
	"fmt"

	"github.com/cybergodev/jwtkit/internal/signing"
)

// Sentinels for errors.Is. Each typed error below matches exactly one.
var (
	ErrInvalidFormat        = errors.New("invalid JWT format")
	ErrDecode               = errors.New("failed to decode JWT")
	ErrKeyFormat            = errors.New("invalid key format")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidConfig        = errors.New("invalid configuration")
)

// FormatError reports a token that is not three non-empty dot-separated
// segments.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Invalid JWT format: %v", e.Err)
	}
	return "Invalid JWT format"
}

func (e *FormatError) Unwrap() []error {
	return []error{ErrInvalidFormat, e.Err}
}

// DecodeError reports a header or payload segment that is not base64url
// encoded UTF-8 JSON object text.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to decode JWT: %v", e.Err)
	}
	return "Failed to decode JWT"
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// KeyFormatError reports key material that cannot be used with the requested
// algorithm, such as a PEM block given as an HMAC secret.
type KeyFormatError struct {
	Algorithm Algorithm
	Err       error
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("invalid key for %s: %s", e.Algorithm, detail(e.Err, signing.ErrInvalidKey))
}

func (e *KeyFormatError) Unwrap() []error {
	return []error{ErrKeyFormat, e.Err}
}

// UnsupportedAlgorithmError reports an algorithm outside the supported set,
// or one from another family than the caller asked for.
type UnsupportedAlgorithmError struct {
	Algorithm Algorithm
	Expected  Family // set when a family-specific entry point was used
}

func (e *UnsupportedAlgorithmError) Error() string {
	if e.Expected != "" && e.Expected != FamilyUnsupported {
		return fmt.Sprintf("unsupported algorithm: %q is not an %s algorithm", e.Algorithm, e.Expected)
	}
	return fmt.Sprintf("unsupported algorithm: %q", e.Algorithm)
}

func (e *UnsupportedAlgorithmError) Unwrap() error {
	return ErrUnsupportedAlgorithm
}
