// internal/matching/normalize/normalize.go

// Package normalize canonicalizes free-text name and phone strings before
// comparison. All functions are pure.
package normalize

import (
	"strings"
	"unicode"
)

// Name lowercases s, replaces every non-word, non-space rune with a space,
// collapses whitespace runs and trims. Empty input yields "".
func Name(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Phone strips all non-digit characters and applies North American country
// code handling: exactly 10 digits gains a leading "1", 11 digits already
// starting with "1" are kept. Any other digit count is returned bare, which
// can be ambiguous for non-US numbers.
func Phone(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case len(digits) == 10:
		return "1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return digits
	default:
		return digits
	}
}

// LastDigits returns the trailing n digits of an already normalized phone
// string, or the whole string when it is shorter.
func LastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
