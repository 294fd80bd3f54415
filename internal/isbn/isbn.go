// file: internal/isbn/isbn.go
// version: 1.0.0
// guid: ac681acb-45de-49a8-bc06-b7ec24f0b97c

package isbn

import (
	"strings"
)

// Clean strips the spreadsheet quoting Goodreads wraps identifiers in
// (`="9780547928227"`) along with hyphens and spaces. Returns "" when
// nothing is left.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("=", "", `"`, "", "-", "", " ", "").Replace(s)
	return strings.ToUpper(s)
}

// Valid reports whether s is a well-formed ISBN-10 or ISBN-13 with a
// correct check digit. s must already be cleaned.
func Valid(s string) bool {
	switch len(s) {
	case 10:
		return valid10(s)
	case 13:
		return valid13(s)
	default:
		return false
	}
}

// Normalize cleans raw and returns it if valid, or "" otherwise.
func Normalize(raw string) string {
	s := Clean(raw)
	if !Valid(s) {
		return ""
	}
	return s
}

func valid10(s string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		c := s[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

func valid13(s string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}
