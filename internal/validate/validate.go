package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"balalaika/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// MaxQ caps search text, in runes.
const MaxQ = 50

// Q normalizes search text: control characters are dropped, the rest is
// trimmed and capped at MaxQ runes. Any text is a valid query; it is only
// ever matched as a substring and escaped on output.
func Q(s string) string {
	s = strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
	if utf8.RuneCountInString(s) > MaxQ {
		s = strings.TrimSpace(string([]rune(s)[:MaxQ]))
	}
	return s
}

// ID validates a document identifier (seeded slugs and uuids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Filter accepts domain.All, empty (same as All) or an ID.
func Filter(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == domain.All {
		return domain.All, true
	}
	return ID(s)
}

// Gender accepts one of domain.Genders; empty means unspecified.
func Gender(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	for _, g := range domain.Genders {
		if g == s {
			return s, true
		}
	}
	return "", false
}

// GenderFilter is Gender for the catalog sidebar, where ALL means any.
func GenderFilter(s string) (string, bool) {
	if s = strings.TrimSpace(s); s == "" || s == domain.All {
		return domain.All, true
	}
	return Gender(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 80 {
		return "", false
	}
	return s, true
}

// Text trims free text and caps it at max runes.
func Text(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}

// Price parses a non-negative amount; empty is zero. A comma decimal
// separator is accepted.
func Price(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1e7 {
		return 0, false
	}
	return v, true
}

// Discount parses a percentage and clamps it to [0,100].
func Discount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return domain.ClampDiscount(v), true
}

// Checkbox reads an HTML checkbox value.
func Checkbox(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
