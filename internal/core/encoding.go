package core

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	errEmptySegment = errors.New("empty segment")
	errInvalidUTF8  = errors.New("segment is not valid UTF-8")
	errNotObject    = errors.New("segment is not a JSON object")
)

// DecodeSegment decodes a base64url segment. The segment is normalized to
// standard base64 first (- to +, _ to /, padded to a multiple of 4) so padded
// and unpadded input are both accepted. The result must be UTF-8 text.
func DecodeSegment(segment string) ([]byte, error) {
	if len(segment) == 0 {
		return nil, errEmptySegment
	}

	normalized := normalizeBase64URL(segment)

	buf := make([]byte, base64.StdEncoding.DecodedLen(len(normalized)))
	n, err := base64.StdEncoding.Decode(buf, []byte(normalized))
	if err != nil {
		return nil, fmt.Errorf("invalid base64url: %w", err)
	}
	buf = buf[:n]

	if !utf8.Valid(buf) {
		return nil, errInvalidUTF8
	}

	return buf, nil
}

// DecodeJSONSegment decodes a base64url segment holding a JSON object into
// dest and returns the decoded JSON text.
func DecodeJSONSegment(segment string, dest any) ([]byte, error) {
	data, err := DecodeSegment(segment)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}

	if err := json.Unmarshal(trimmed, dest); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return data, nil
}

// EncodeSegment base64url-encodes data without padding.
func EncodeSegment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// EncodeJSONSegment serializes v as compact JSON and base64url-encodes it.
func EncodeJSONSegment(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return EncodeSegment(data), nil
}

func normalizeBase64URL(segment string) string {
	var sb strings.Builder
	sb.Grow(len(segment) + 3)

	for i := 0; i < len(segment); i++ {
		switch c := segment[i]; c {
		case '-':
			sb.WriteByte('+')
		case '_':
			sb.WriteByte('/')
		default:
			sb.WriteByte(c)
		}
	}

	if rem := sb.Len() % 4; rem != 0 {
		for i := rem; i < 4; i++ {
			sb.WriteByte('=')
		}
	}

	return sb.String()
}
