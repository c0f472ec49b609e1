package signing

import (
	"regexp"
	"strings"

	"github.com/cybergodev/jwtkit/internal/security"
)

var pemPattern = regexp.MustCompile(`^-----BEGIN [^\r\n]+-----[\s\S]+-----END [^\r\n]+-----$`)

// LooksLikePEM reports whether s has the shape of a single PEM block. The
// body is not decoded.
func LooksLikePEM(s string) bool {
	return pemPattern.MatchString(strings.TrimSpace(s))
}

// ParseSigningKey converts key material into the key value method.Sign
// expects.
func ParseSigningKey(method Method, material string) (any, error) {
	return method.SigningKey(material)
}

// ParseVerifyingKey converts key material into the key value method.Verify
// expects.
func ParseVerifyingKey(method Method, material string) (any, error) {
	return method.VerifyingKey(material)
}

// ReleaseKey zeroes key material held in memory by this package.
func ReleaseKey(key any) {
	if sb, ok := key.(*security.SecureBytes); ok {
		sb.Destroy()
	}
}
