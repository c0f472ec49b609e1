package jwtkit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	headerAlgorithm = "alg"
	headerType      = "typ"

	claimIssuer    = "iss"
	claimSubject   = "sub"
	claimAudience  = "aud"
	claimExpiresAt = "exp"
	claimNotBefore = "nbf"
	claimIssuedAt  = "iat"
)

// Audience is the "aud" claim. It decodes from a string or an array of
// strings and encodes a single entry as a plain string.
type Audience []string

func (a Audience) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

func (a *Audience) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("aud: empty value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Audience{s}
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("aud: %w", err)
		}
		*a = list
		return nil
	default:
		return fmt.Errorf("aud: expected string or array of strings")
	}
}

func (h Header) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(h.Extra)+2)
	for k, v := range h.Extra {
		m[k] = v
	}
	if h.Algorithm != "" {
		m[headerAlgorithm] = string(h.Algorithm)
	}
	if h.Type != "" {
		m[headerType] = h.Type
	}
	return json.Marshal(m)
}

func (h *Header) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*h = Header{}
	for name, raw := range fields {
		switch name {
		case headerAlgorithm:
			if s, ok := nonEmptyString(raw); ok {
				h.Algorithm = Algorithm(s)
				continue
			}
		case headerType:
			if s, ok := nonEmptyString(raw); ok {
				h.Type = s
				continue
			}
		}
		if err := setExtra(&h.Extra, name, raw); err != nil {
			return err
		}
	}
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		m[k] = v
	}
	if p.Issuer != "" {
		m[claimIssuer] = p.Issuer
	}
	if p.Subject != "" {
		m[claimSubject] = p.Subject
	}
	if len(p.Audience) > 0 {
		m[claimAudience] = p.Audience
	}
	if p.ExpiresAt != nil {
		m[claimExpiresAt] = *p.ExpiresAt
	}
	if p.NotBefore != nil {
		m[claimNotBefore] = *p.NotBefore
	}
	if p.IssuedAt != nil {
		m[claimIssuedAt] = *p.IssuedAt
	}
	return json.Marshal(m)
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*p = Payload{}
	for name, raw := range fields {
		if p.liftRegistered(name, raw) {
			continue
		}
		if err := setExtra(&p.Extra, name, raw); err != nil {
			return err
		}
	}
	return nil
}

// liftRegistered stores raw in the matching registered field and reports
// whether it did.
func (p *Payload) liftRegistered(name string, raw json.RawMessage) bool {
	switch name {
	case claimIssuer:
		s, ok := nonEmptyString(raw)
		p.Issuer = s
		return ok
	case claimSubject:
		s, ok := nonEmptyString(raw)
		p.Subject = s
		return ok
	case claimAudience:
		var aud Audience
		if err := aud.UnmarshalJSON(raw); err != nil || len(aud) == 0 {
			return false
		}
		p.Audience = aud
		return true
	case claimExpiresAt:
		return liftDate(&p.ExpiresAt, raw)
	case claimNotBefore:
		return liftDate(&p.NotBefore, raw)
	case claimIssuedAt:
		return liftDate(&p.IssuedAt, raw)
	}
	return false
}

func liftDate(dst **NumericDate, raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] < '0' || raw[0] > '9' {
		return false
	}
	t, err := parseNumericDate(string(raw))
	if err != nil {
		return false
	}
	*dst = &NumericDate{Time: t}
	return true
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return fields, nil
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// setExtra decodes raw with UseNumber so numeric claims keep their exact
// digits on re-encode.
func setExtra(extra *map[string]any, name string, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("claim %q: %w", name, err)
	}
	if *extra == nil {
		*extra = make(map[string]any)
	}
	(*extra)[name] = v
	return nil
}
