package jwtkit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxNumericDate is 9999-12-31T23:59:59Z.
const maxNumericDate = 253402300799

// NumericDate represents a JSON numeric date value as specified in RFC 7519.
// It stores time as Unix timestamp (seconds since epoch) for JWT compatibility.
type NumericDate struct {
	time.Time
}

// NewNumericDate creates a new NumericDate from time.Time
func NewNumericDate(t time.Time) *NumericDate {
	return &NumericDate{Time: t}
}

// MarshalJSON writes whole seconds, or seconds with a trimmed fraction when
// the time has sub-second precision.
func (date NumericDate) MarshalJSON() ([]byte, error) {
	if date.Time.IsZero() {
		return []byte("null"), nil
	}

	sec := date.Unix()
	nsec := date.Nanosecond()
	if nsec == 0 {
		return strconv.AppendInt(nil, sec, 10), nil
	}

	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return fmt.Appendf(nil, "%d.%s", sec, frac), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (date *NumericDate) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		date.Time = time.Time{}
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		date.Time = time.Time{}
		return nil
	}

	t, err := parseNumericDate(s)
	if err != nil {
		return err
	}
	date.Time = t
	return nil
}

// parseNumericDate parses a JSON number of seconds, keeping fractional
// digits exact up to nanoseconds.
func parseNumericDate(s string) (time.Time, error) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time format: expected unix timestamp, got %s", s)
		}
		intPart = strconv.FormatInt(int64(f), 10)
		fracPart = ""
		hasFrac = false
	}

	unix, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: expected unix timestamp, got %s", s)
	}
	if unix < 0 || unix > maxNumericDate {
		return time.Time{}, fmt.Errorf("invalid unix timestamp: %d", unix)
	}

	var nsec int64
	if hasFrac {
		if fracPart == "" || strings.Trim(fracPart, "0123456789") != "" {
			return time.Time{}, fmt.Errorf("invalid time format: expected unix timestamp, got %s", s)
		}
		if len(fracPart) > 9 {
			fracPart = fracPart[:9]
		}
		fracPart += strings.Repeat("0", 9-len(fracPart))
		nsec, _ = strconv.ParseInt(fracPart, 10, 64)
	}

	return time.Unix(unix, nsec).UTC(), nil
}

// TimestampLayout is the layout used by FormatTimestamp.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// FormatTimestamp renders seconds since the epoch in the local time zone.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).Local().Format(TimestampLayout)
}

// TimeToExpiry describes how long until exp: "Expired" once exp <= now,
// otherwise "1h 2m 3s", "2m 3s" or "3s" depending on magnitude.
func TimeToExpiry(exp int64, now time.Time) string {
	diff := exp - now.Unix()
	if diff <= 0 {
		return "Expired"
	}

	hours := diff / 3600
	minutes := (diff % 3600) / 60
	seconds := diff % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Common expiry presets.
const (
	ExpiresInHour = time.Hour
	ExpiresInDay  = 24 * time.Hour
	ExpiresInWeek = 7 * 24 * time.Hour
)

// SetExpiry sets exp to now+d truncated to whole seconds.
func (p *Payload) SetExpiry(d time.Duration, now time.Time) {
	p.ExpiresAt = NewNumericDate(time.Unix(now.Add(d).Unix(), 0).UTC())
}
