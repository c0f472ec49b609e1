package jwtkit

import (
	"time"
)

// TokenMetadata summarizes the registered claims of a decoded token for
// display.
type TokenMetadata struct {
	Algorithm Algorithm `json:"algorithm"`
	Type      string    `json:"type,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Audience  []string  `json:"audience,omitempty"`

	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	NotBefore *time.Time `json:"not_before,omitempty"`

	// TimeToExpiry is TimeToExpiry(exp, now), empty without exp.
	TimeToExpiry string `json:"time_to_expiry,omitempty"`
	Expired      bool   `json:"expired"`
	NotYetValid  bool   `json:"not_yet_valid"`
}

// Inspect extracts TokenMetadata from decoded as seen at now.
func Inspect(decoded *DecodedToken, now time.Time) TokenMetadata {
	if decoded == nil {
		return TokenMetadata{}
	}

	p := decoded.Payload
	md := TokenMetadata{
		Algorithm: decoded.Header.Algorithm,
		Type:      decoded.Header.Type,
		Issuer:    p.Issuer,
		Subject:   p.Subject,
		Audience:  append([]string(nil), p.Audience...),
		IssuedAt:  dateTime(p.IssuedAt),
		ExpiresAt: dateTime(p.ExpiresAt),
		NotBefore: dateTime(p.NotBefore),
	}

	if p.ExpiresAt != nil {
		md.TimeToExpiry = TimeToExpiry(p.ExpiresAt.Unix(), now)
		md.Expired = p.ExpiresAt.Unix() <= now.Unix()
	}
	if p.NotBefore != nil {
		md.NotYetValid = p.NotBefore.Unix() > now.Unix()
	}

	return md
}

func dateTime(d *NumericDate) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
