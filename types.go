package jwtkit

// Header is the decoded JOSE header. Keys other than "alg" and "typ" are kept
// in Extra and survive decode and re-encode unchanged.
type Header struct {
	Algorithm Algorithm      // "alg"
	Type      string         // "typ", usually "JWT"
	Extra     map[string]any // every other header parameter
}

// Payload is the decoded claims set. No claim is required and the zero value
// encodes as {}.
//
// A registered claim is only lifted into its field when its JSON value has
// the expected type: a non-empty string for iss and sub, a string or array of
// strings for aud, a number in NumericDate range for exp, nbf and iat.
// Anything else stays in Extra untouched.
type Payload struct {
	Issuer    string       // "iss"
	Subject   string       // "sub"
	Audience  Audience     // "aud"
	ExpiresAt *NumericDate // "exp"
	NotBefore *NumericDate // "nbf"
	IssuedAt  *NumericDate // "iat"

	// Extra holds private and unrecognized claims. Numbers decode as
	// json.Number so they re-encode digit for digit.
	Extra map[string]any
}

// Claim returns the named claim, looking at the registered fields first.
func (p Payload) Claim(name string) (any, bool) {
	switch name {
	case claimIssuer:
		if p.Issuer != "" {
			return p.Issuer, true
		}
	case claimSubject:
		if p.Subject != "" {
			return p.Subject, true
		}
	case claimAudience:
		if len(p.Audience) > 0 {
			return []string(p.Audience), true
		}
	case claimExpiresAt:
		if p.ExpiresAt != nil {
			return p.ExpiresAt.Unix(), true
		}
	case claimNotBefore:
		if p.NotBefore != nil {
			return p.NotBefore.Unix(), true
		}
	case claimIssuedAt:
		if p.IssuedAt != nil {
			return p.IssuedAt.Unix(), true
		}
	}
	v, ok := p.Extra[name]
	return v, ok
}

// Set stores a private claim in Extra.
func (p *Payload) Set(name string, value any) {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	p.Extra[name] = value
}

// RawSegments are the three encoded parts of a token exactly as received.
// Verification signs over Header + "." + Payload from here, never over a
// re-serialization.
type RawSegments struct {
	Header    string
	Payload   string
	Signature string
}

// SigningInput returns Header + "." + Payload.
func (r RawSegments) SigningInput() string {
	return r.Header + "." + r.Payload
}

// DecodedToken is the result of Decode. The signature is left encoded.
type DecodedToken struct {
	Header    Header
	Payload   Payload
	Signature string
	Raw       RawSegments

	// HeaderJSON and PayloadJSON are the decoded segment text, useful for
	// showing claims in their original order.
	HeaderJSON  []byte
	PayloadJSON []byte
}

// EncodedToken is the unsigned output of Encode.
type EncodedToken struct {
	SigningInput   string
	HeaderSegment  string
	PayloadSegment string
}

// ValidationResult is the outcome of a verification. Exactly one of Message
// (when Valid) and Error (when not) is set.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Algorithm string `json:"algorithm,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MessageVerified is the Message of every successful ValidationResult.
const MessageVerified = "Signature verified successfully"

func validResult(alg Algorithm) ValidationResult {
	return ValidationResult{Valid: true, Algorithm: string(alg), Message: MessageVerified}
}

func invalidResult(alg Algorithm, reason string) ValidationResult {
	if reason == "" {
		reason = "signature verification failed"
	}
	return ValidationResult{Valid: false, Algorithm: string(alg), Error: reason}
}
