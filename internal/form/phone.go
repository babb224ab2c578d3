// internal/form/phone.go
//
// Contact form – email and NANP phone rules.
//
// Context
//   The phone check runs in two passes.  The shape pass accepts an optional
//   "+1" or "1" prefix, optional parentheses around the area code, and "-",
//   ".", or space between the 3-3-4 groups.  The digit pass then strips
//   every non-digit and requires exactly 10 digits, or 11 with a leading 1.
//   The digit pass is authoritative; the shape pass only narrows which
//   separators are tolerated.
//
//------------------------------------------------------------------------------

package form

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(?:\+?1[-. ]?)?(?:\(\d{3}\)|\d{3})[-. ]?\d{3}[-. ]?\d{4}$`)
)

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsValidPhone reports whether s is a North American number.
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if hasLetter(s) {
		return false
	}
	if !phonePattern.MatchString(s) {
		return false
	}
	return nanpDigits(digitsOnly(s))
}

// NormalizePhone returns the "+"-prefixed canonical form of a valid phone
// number.  Input that does not reduce to 10 digits, or 11 with a leading 1,
// is returned trimmed and otherwise unchanged.  NormalizePhone(
// NormalizePhone(s)) == NormalizePhone(s) for every s.
func NormalizePhone(s string) string {
	d := digitsOnly(s)
	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	default:
		return strings.TrimSpace(s)
	}
}

func nanpDigits(d string) bool {
	return len(d) == 10 || (len(d) == 11 && d[0] == '1')
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
