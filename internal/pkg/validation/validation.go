package validation

import (
	"regexp"
	"time"
)

// Lot IDs look like SA-GO-2023-001: prefix, level, year, 3-digit sequence.
var lotIDRe = regexp.MustCompile(`^[A-Z]{2}-[A-Z0-9]{2,3}-\d{4}-\d{3}$`)

// Variety codes: letters and digits, 2-20 chars (e.g. SAHEL108).
var varietyCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{2,20}$`)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidLotID(id string) bool {
	return lotIDRe.MatchString(id)
}

func IsValidVarietyCode(code string) bool {
	return varietyCodeRe.MatchString(code)
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ParseDate parses an ISO-8601 date, accepting either a bare date or a full
// RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// IsValidPercentage reports whether v is a valid percentage value.
func IsValidPercentage(v float64) bool {
	return v >= 0 && v <= 100
}

// IsPositiveQuantity reports whether q is a usable quantity in kg.
func IsPositiveQuantity(q float64) bool {
	return q > 0
}
