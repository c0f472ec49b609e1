package core

import (
	"errors"
	"strings"
	"testing"
)

const (
	headerHS256 = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9" // {"alg":"HS256","typ":"JWT"}
	payloadSub  = "eyJzdWIiOiJ1c2VyMTIzIn0"              // {"sub":"user123"}
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Segments
		wantErr bool
	}{
		{
			name:  "valid JWT format",
			input: "header.payload.signature",
			want:  Segments{Header: "header", Payload: "payload", Signature: "signature"},
		},
		{name: "only one separator", input: "header.payload", wantErr: true},
		{name: "no separator", input: "headerPayloadSignature", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "extra separators", input: "a.b.c.d", wantErr: true},
		{name: "empty header", input: ".b.c", wantErr: true},
		{name: "empty payload", input: "a..c", wantErr: true},
		{name: "empty signature", input: "a.b.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Split(%q) expected error, got %+v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("Expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Split(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		want    string
		wantErr bool
	}{
		{name: "unpadded", segment: "e30", want: "{}"},
		{name: "padded", segment: "e30=", want: "{}"},
		{name: "url alphabet", segment: "eyJhIjoiPz8-In0", want: `{"a":"??>"}`},
		{name: "standard alphabet", segment: "eyJhIjoiPz8+In0", want: `{"a":"??>"}`},
		{name: "empty", segment: "", wantErr: true},
		{name: "invalid characters", segment: "!!!invalid!!!", wantErr: true},
		{name: "impossible length", segment: "abcde", wantErr: true},
		{name: "not utf8", segment: "__79", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSegment(tt.segment)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %q", tt.segment, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSegment(%q) unexpected error: %v", tt.segment, err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeSegment(%q) = %q, want %q", tt.segment, got, tt.want)
			}
		})
	}
}

func TestDecodeJSONSegment(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		wantErr string
	}{
		{name: "object", segment: payloadSub},
		{name: "empty object", segment: "e30"},
		{name: "array", segment: "WzEsMl0", wantErr: "not a JSON object"},
		{name: "null", segment: "bnVsbA", wantErr: "not a JSON object"},
		{name: "plain text", segment: "bm90IGpzb24", wantErr: "not a JSON object"},
		{name: "bad base64", segment: "parts!", wantErr: "invalid base64url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest map[string]any
			raw, err := DecodeJSONSegment(tt.segment, &dest)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(raw) == 0 {
				t.Error("Expected raw JSON to be returned")
			}
			if dest == nil {
				t.Error("Expected destination to be populated")
			}
		})
	}
}

func TestParse(t *testing.T) {
	token := headerHS256 + "." + payloadSub + ".c2lnbmF0dXJl"

	var header, payload map[string]any
	parsed, err := Parse(token, &header, &payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if header["alg"] != "HS256" || header["typ"] != "JWT" {
		t.Errorf("Unexpected header: %v", header)
	}
	if payload["sub"] != "user123" {
		t.Errorf("Unexpected payload: %v", payload)
	}
	if parsed.Segments.Signature != "c2lnbmF0dXJl" {
		t.Errorf("Signature segment must stay encoded, got %q", parsed.Segments.Signature)
	}
	if parsed.Segments.SigningInput() != headerHS256+"."+payloadSub {
		t.Errorf("Unexpected signing input: %q", parsed.Segments.SigningInput())
	}
	if string(parsed.PayloadJSON) != `{"sub":"user123"}` {
		t.Errorf("Unexpected payload JSON: %s", parsed.PayloadJSON)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr error
		wantMsg string
	}{
		{name: "two segments", token: "invalid.token", wantErr: ErrInvalidFormat},
		{name: "four segments", token: "a.b.c.d", wantErr: ErrInvalidFormat},
		{name: "garbage segments", token: "invalid.token.parts", wantErr: ErrDecode, wantMsg: "header"},
		{name: "bad payload", token: headerHS256 + ".WzEsMl0.sig", wantErr: ErrDecode, wantMsg: "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var header, payload map[string]any
			_, err := Parse(tt.token, &header, &payload)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error to mention %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	header := map[string]any{"alg": "HS256", "typ": "JWT"}
	payload := map[string]any{"sub": "user123"}

	segments, err := Encode(header, payload)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if segments.Header != headerHS256 {
		t.Errorf("Header segment = %q, want %q", segments.Header, headerHS256)
	}
	if segments.Payload != payloadSub {
		t.Errorf("Payload segment = %q, want %q", segments.Payload, payloadSub)
	}
	if strings.ContainsAny(segments.SigningInput(), "=+/") {
		t.Errorf("Signing input must be unpadded base64url: %q", segments.SigningInput())
	}
}

func TestEncodeInvalid(t *testing.T) {
	if _, err := Encode(map[string]any{"bad": make(chan int)}, map[string]any{}); err == nil {
		t.Error("Expected error for unserializable header")
	}
	if _, err := Encode(map[string]any{}, map[string]any{"bad": make(chan int)}); err == nil {
		t.Error("Expected error for unserializable payload")
	}
}

func TestJoin(t *testing.T) {
	if got := Join("a", "b", "c"); got != "a.b.c" {
		t.Errorf("Join = %q, want a.b.c", got)
	}
	if got := SigningInput("a", "b"); got != "a.b" {
		t.Errorf("SigningInput = %q, want a.b", got)
	}
}
