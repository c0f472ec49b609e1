package jwtkit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cybergodev/jwtkit/internal/core"
)

// Decode splits a compact token and decodes its header and payload. It does
// not verify anything. A token that is not three non-empty segments yields a
// *FormatError; a header or payload that is not base64url JSON object text
// yields a *DecodeError.
func Decode(token string) (*DecodedToken, error) {
	var decoded DecodedToken

	parsed, err := core.Parse(token, &decoded.Header, &decoded.Payload)
	if err != nil {
		if errors.Is(err, core.ErrInvalidFormat) {
			return nil, &FormatError{Err: errors.New(detail(err, core.ErrInvalidFormat))}
		}
		return nil, &DecodeError{Err: errors.New(detail(err, core.ErrDecode))}
	}

	decoded.Signature = parsed.Segments.Signature
	decoded.Raw = RawSegments{
		Header:    parsed.Segments.Header,
		Payload:   parsed.Segments.Payload,
		Signature: parsed.Segments.Signature,
	}
	decoded.HeaderJSON = parsed.HeaderJSON
	decoded.PayloadJSON = parsed.PayloadJSON

	return &decoded, nil
}

// Encode serializes header and payload into their segments and the signing
// input. alg is written to the header when header.Algorithm is empty.
func Encode(alg Algorithm, header Header, payload Payload) (*EncodedToken, error) {
	if header.Algorithm == "" {
		header.Algorithm = alg
	}
	if header.Algorithm == "" {
		return nil, &UnsupportedAlgorithmError{}
	}

	segments, err := core.Encode(header, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}

	return &EncodedToken{
		SigningInput:   segments.SigningInput(),
		HeaderSegment:  segments.Header,
		PayloadSegment: segments.Payload,
	}, nil
}

// detail strips the sentinel prefix from an internal error message.
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}
