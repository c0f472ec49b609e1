package security

import (
	"bytes"
	"strings"
)

// RecommendedSecretLength is the shortest HMAC secret not reported as weak.
const RecommendedSecretLength = 32

var weakPatterns = []string{
	"12345678", "87654321", "11111111", "00000000", "aaaaaaaa",
	"abcdefgh", "qwertyui", "asdfghjk", "zxcvbnm", "qwerty",
	"letmein", "welcome", "monkey", "dragon", "master",
	"sunshine", "iloveyou", "princess", "football", "charlie",
	"default", "example", "sample", "demo", "guest", "public",
	"private", "secure", "unsafe", "temp", "temporary",
	"password", "test", "admin", "user", "token", "secret",
}

var keyboardPatterns = []string{
	"qwertyuiop", "asdfghjkl", "zxcvbnm",
	"1234567890", "0987654321",
	"qwerty", "asdfgh", "zxcvbn",
	"poiuytrewq", "lkjhgfdsa", "mnbvcxz",
	"qwertz", "azerty",
	"dvorak", "colemak",
}

// IsWeakKey reports whether key looks guessable.
func IsWeakKey(key []byte) bool {
	return WeakKeyReason(key) != ""
}

// WeakKeyReason returns a short description of why key is weak, or "" when
// no weakness was found. The key itself never appears in the result.
func WeakKeyReason(key []byte) string {
	if len(key) == 0 {
		return "empty key"
	}

	if len(key) < RecommendedSecretLength {
		return "shorter than 32 bytes"
	}

	if isRepeatedByte(key) {
		return "single repeated byte"
	}

	if hasLowEntropy(key) {
		return "low entropy"
	}

	keyStr := strings.ToLower(string(key))
	for _, pattern := range weakPatterns {
		if strings.Contains(keyStr, pattern) {
			return "contains a common word or sequence"
		}
	}

	if hasKeyboardPattern(keyStr) {
		return "contains a keyboard pattern"
	}

	if isSequential(key) {
		return "sequential bytes"
	}

	if hasShortCycle(key) {
		return "short repeated pattern"
	}

	return ""
}

func isRepeatedByte(key []byte) bool {
	for _, b := range key {
		if b != key[0] {
			return false
		}
	}
	return true
}

func isSequential(key []byte) bool {
	if len(key) < 8 {
		return false
	}

	ascending := true
	descending := true
	for i := 1; i < 8; i++ {
		if key[i] != key[i-1]+1 {
			ascending = false
		}
		if key[i] != key[i-1]-1 {
			descending = false
		}
	}
	return ascending || descending
}

// hasShortCycle detects keys made of a 2 to 4 byte pattern repeated at
// least three times.
func hasShortCycle(key []byte) bool {
	for patternLen := 2; patternLen <= 4; patternLen++ {
		if len(key) < patternLen*3 {
			continue
		}
		pattern := key[:patternLen]
		repeated := true
		for i := patternLen; i < len(key); i += patternLen {
			end := min(i+patternLen, len(key))
			if !bytes.Equal(key[i:end], pattern[:end-i]) {
				repeated = false
				break
			}
		}
		if repeated {
			return true
		}
	}
	return false
}

func hasLowEntropy(key []byte) bool {
	if len(key) < 8 {
		return true
	}

	uniqueBytes := make(map[byte]struct{})
	for _, b := range key {
		uniqueBytes[b] = struct{}{}
	}

	// Less than 30% unique characters.
	if float64(len(uniqueBytes))/float64(len(key)) < 0.3 {
		return true
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, b := range key {
		switch {
		case b >= 'a' && b <= 'z':
			hasLower = true
		case b >= 'A' && b <= 'Z':
			hasUpper = true
		case b >= '0' && b <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	classCount := 0
	for _, present := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if present {
			classCount++
		}
	}

	minClasses := 2
	if len(key) >= 32 {
		minClasses = 3
	}

	return classCount < minClasses
}

func hasKeyboardPattern(keyStr string) bool {
	for _, pattern := range keyboardPatterns {
		if strings.Contains(keyStr, pattern) || strings.Contains(keyStr, reverseString(pattern)) {
			return true
		}
	}
	return false
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
