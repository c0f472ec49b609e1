package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat reports a token that is not three non-empty
	// dot-separated segments.
	ErrInvalidFormat = errors.New("invalid token format")

	// ErrDecode reports a header or payload segment that is not base64url
	// encoded JSON.
	ErrDecode = errors.New("failed to decode token")
)

// Split breaks a compact token into its segments. Exactly three non-empty
// segments are required.
func Split(token string) (Segments, error) {
	var (
		first  = -1
		second = -1
	)

	for i := 0; i < len(token); i++ {
		if token[i] != separator {
			continue
		}
		switch {
		case first == -1:
			first = i
		case second == -1:
			second = i
		default:
			return Segments{}, fmt.Errorf("%w: more than %d segments", ErrInvalidFormat, SegmentCount)
		}
	}

	if first == -1 || second == -1 {
		return Segments{}, fmt.Errorf("%w: expected %d segments", ErrInvalidFormat, SegmentCount)
	}

	s := Segments{
		Header:    token[:first],
		Payload:   token[first+1 : second],
		Signature: token[second+1:],
	}
	if s.Header == "" || s.Payload == "" || s.Signature == "" {
		return Segments{}, fmt.Errorf("%w: %v", ErrInvalidFormat, errEmptySegment)
	}

	return s, nil
}

// Parse splits token and decodes its header and payload into the given
// destinations. The signature segment is left encoded.
func Parse(token string, header, payload any) (*Parsed, error) {
	segments, err := Split(token)
	if err != nil {
		return nil, err
	}

	headerJSON, err := DecodeJSONSegment(segments.Header, header)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrDecode, err)
	}

	payloadJSON, err := DecodeJSONSegment(segments.Payload, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrDecode, err)
	}

	return &Parsed{
		Segments:    segments,
		HeaderJSON:  headerJSON,
		PayloadJSON: payloadJSON,
	}, nil
}

// Parsed is the result of Parse: the raw segments plus the decoded JSON text
// of header and payload.
type Parsed struct {
	Segments    Segments
	HeaderJSON  []byte
	PayloadJSON []byte
}

// Encode serializes header and payload into their segments and the signing
// input.
func Encode(header, payload any) (Segments, error) {
	headerSeg, err := EncodeJSONSegment(header)
	if err != nil {
		return Segments{}, fmt.Errorf("failed to marshal header: %w", err)
	}

	payloadSeg, err := EncodeJSONSegment(payload)
	if err != nil {
		return Segments{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return Segments{Header: headerSeg, Payload: payloadSeg}, nil
}

// SigningInput joins the header and payload segments.
func SigningInput(header, payload string) string {
	buf := make([]byte, len(header)+1+len(payload))
	copy(buf, header)
	buf[len(header)] = separator
	copy(buf[len(header)+1:], payload)
	return string(buf)
}

// Join assembles a compact token from its three segments.
func Join(header, payload, signature string) string {
	signingInput := SigningInput(header, payload)
	buf := make([]byte, len(signingInput)+1+len(signature))
	copy(buf, signingInput)
	buf[len(signingInput)] = separator
	copy(buf[len(signingInput)+1:], signature)
	return string(buf)
}
