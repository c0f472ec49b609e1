package jwtkit

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawToken(header, payload, signature string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + "." + signature
}

func TestDecodeSampleToken(t *testing.T) {
	decoded, err := Decode(sampleToken)
	require.NoError(t, err)

	assert.Equal(t, HS256, decoded.Header.Algorithm)
	assert.Equal(t, "JWT", decoded.Header.Type)
	assert.Empty(t, decoded.Header.Extra)

	assert.Equal(t, "1234567890", decoded.Payload.Subject)
	name, ok := decoded.Payload.Claim("name")
	require.True(t, ok)
	assert.Equal(t, "John Doe", name)
	require.NotNil(t, decoded.Payload.IssuedAt)
	assert.Equal(t, int64(1516239022), decoded.Payload.IssuedAt.Unix())

	assert.Equal(t, "SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c", decoded.Signature)
	assert.Equal(t, decoded.Signature, decoded.Raw.Signature)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxMjM0NTY3ODkwIiwibmFtZSI6IkpvaG4gRG9lIiwiaWF0IjoxNTE2MjM5MDIyfQ",
		decoded.Raw.SigningInput())
	assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(decoded.HeaderJSON))
	assert.JSONEq(t, `{"sub":"1234567890","name":"John Doe","iat":1516239022}`, string(decoded.PayloadJSON))
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two segments", "invalid.token"},
		{"four segments", "a.b.c.d"},
		{"empty header", ".eyJ9.sig"},
		{"empty signature", "eyJhbGciOiJIUzI1NiJ9.e30."},
		{"only dots", ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)

			var formatErr *FormatError
			assert.ErrorAs(t, err, &formatErr)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.False(t, errors.Is(err, ErrDecode))
			assert.Contains(t, err.Error(), "Invalid JWT format")
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64 json", "invalid.token.parts"},
		{"bad base64", "a.b.c"},
		{"header not json", rawToken("not json", "{}", "sig")},
		{"payload not json", rawToken(`{"alg":"HS256"}`, "nope", "sig")},
		{"header array", rawToken(`[1,2]`, "{}", "sig")},
		{"payload string", rawToken(`{"alg":"HS256"}`, `"claims"`, "sig")},
		{"payload null", rawToken(`{"alg":"HS256"}`, `null`, "sig")},
		{"invalid utf8", rawToken(`{"alg":"HS256"}`, "{\"a\":\"\xff\"}", "sig")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)

			var decodeErr *DecodeError
			assert.ErrorAs(t, err, &decodeErr)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Contains(t, err.Error(), "Failed to decode JWT")
		})
	}
}

func TestDecodeAcceptsPaddingAndStandardAlphabet(t *testing.T) {
	header := base64.URLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.StdEncoding.EncodeToString([]byte(`{"sub":"a?b>c"}`))

	decoded, err := Decode(header + "." + payload + ".sig")
	require.NoError(t, err)
	assert.Equal(t, HS256, decoded.Header.Algorithm)
	assert.Equal(t, "a?b>c", decoded.Payload.Subject)
}

func TestEncodeEmptyPayload(t *testing.T) {
	encoded, err := Encode(HS256, Header{}, Payload{})
	require.NoError(t, err)

	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9", encoded.HeaderSegment)
	assert.Equal(t, "e30", encoded.PayloadSegment)
	assert.Equal(t, encoded.HeaderSegment+"."+encoded.PayloadSegment, encoded.SigningInput)

	decoded, err := Decode(encoded.SigningInput + ".c2ln")
	require.NoError(t, err)
	assert.Equal(t, Payload{}, decoded.Payload)
}

func TestEncodeRequiresAlgorithm(t *testing.T) {
	_, err := Encode("", Header{}, Payload{})
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestEncodeKeepsHeaderAlgorithm(t *testing.T) {
	encoded, err := Encode(HS256, Header{Algorithm: RS256}, Payload{})
	require.NoError(t, err)

	decoded, err := Decode(encoded.SigningInput + ".c2ln")
	require.NoError(t, err)
	assert.Equal(t, RS256, decoded.Header.Algorithm)
}

func TestRoundTripPreservesClaims(t *testing.T) {
	payload := Payload{
		Issuer:    "issuer",
		Subject:   "12345",
		Audience:  Audience{"api", "web"},
		ExpiresAt: NewNumericDate(time.Unix(1700003600, 0)),
		NotBefore: NewNumericDate(time.Unix(1700000000, 0)),
		IssuedAt:  NewNumericDate(time.Unix(1700000000, 0)),
	}
	payload.Set("big", json.Number("12345678901234567890"))
	payload.Set("roles", []any{"admin", "user"})
	payload.Set("profile", map[string]any{"name": "John Doe", "verified": true})

	header := Header{Extra: map[string]any{"kid": "key-1"}}

	encoded, err := Encode(ES256, header, payload)
	require.NoError(t, err)

	decoded, err := Decode(encoded.SigningInput + ".c2ln")
	require.NoError(t, err)

	assert.Equal(t, ES256, decoded.Header.Algorithm)
	assert.Equal(t, "key-1", decoded.Header.Extra["kid"])

	p := decoded.Payload
	assert.Equal(t, "issuer", p.Issuer)
	assert.Equal(t, "12345", p.Subject)
	assert.Equal(t, Audience{"api", "web"}, p.Audience)
	assert.Equal(t, int64(1700003600), p.ExpiresAt.Unix())
	assert.Equal(t, int64(1700000000), p.NotBefore.Unix())
	assert.Equal(t, int64(1700000000), p.IssuedAt.Unix())
	assert.Equal(t, json.Number("12345678901234567890"), p.Extra["big"])
	assert.Equal(t, []any{"admin", "user"}, p.Extra["roles"])
	assert.Equal(t, map[string]any{"name": "John Doe", "verified": true}, p.Extra["profile"])

	assert.JSONEq(t, `{
		"iss":"issuer","sub":"12345","aud":["api","web"],
		"exp":1700003600,"nbf":1700000000,"iat":1700000000,
		"big":12345678901234567890,"roles":["admin","user"],
		"profile":{"name":"John Doe","verified":true}
	}`, string(decoded.PayloadJSON))
}

func TestDecodeKeepsMistypedClaimsInExtra(t *testing.T) {
	token := rawToken(`{"alg":"HS256","typ":7}`,
		`{"iss":42,"sub":"","aud":5,"exp":"soon","nbf":-1,"iat":true}`, "sig")

	decoded, err := Decode(token)
	require.NoError(t, err)

	assert.Equal(t, HS256, decoded.Header.Algorithm)
	assert.Empty(t, decoded.Header.Type)
	assert.Equal(t, json.Number("7"), decoded.Header.Extra["typ"])

	p := decoded.Payload
	assert.Empty(t, p.Issuer)
	assert.Empty(t, p.Subject)
	assert.Empty(t, p.Audience)
	assert.Nil(t, p.ExpiresAt)
	assert.Nil(t, p.NotBefore)
	assert.Nil(t, p.IssuedAt)

	assert.Equal(t, json.Number("42"), p.Extra["iss"])
	assert.Equal(t, "", p.Extra["sub"])
	assert.Equal(t, json.Number("5"), p.Extra["aud"])
	assert.Equal(t, "soon", p.Extra["exp"])
	assert.Equal(t, json.Number("-1"), p.Extra["nbf"])
	assert.Equal(t, true, p.Extra["iat"])
}

func TestAudienceEncoding(t *testing.T) {
	decoded, err := Decode(rawToken(`{"alg":"HS256"}`, `{"aud":"api"}`, "sig"))
	require.NoError(t, err)
	assert.Equal(t, Audience{"api"}, decoded.Payload.Audience)

	out, err := json.Marshal(decoded.Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aud":"api"}`, string(out))

	out, err = json.Marshal(Payload{Audience: Audience{"a", "b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"aud":["a","b"]}`, string(out))
}

func TestPayloadClaim(t *testing.T) {
	p := Payload{Subject: "abc", ExpiresAt: NewNumericDate(time.Unix(100, 0))}
	p.Set("role", "admin")

	v, ok := p.Claim("sub")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	v, ok = p.Claim("exp")
	assert.True(t, ok)
	assert.Equal(t, int64(100), v)

	v, ok = p.Claim("role")
	assert.True(t, ok)
	assert.Equal(t, "admin", v)

	_, ok = p.Claim("iss")
	assert.False(t, ok)
}
