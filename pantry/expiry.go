package pantry

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// DefaultExpiringDays is the look-ahead window used when none is given.
const DefaultExpiringDays = 3

// ParseDate reads a calendar date, accepting either YYYY-MM-DD or a full RFC 3339 timestamp
// (whose date part is used as written). The result is midnight UTC of that date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civilDate(t), true
	}
	return time.Time{}, false
}

// NormalizeDate rewrites s as YYYY-MM-DD, or returns "" when s is not a date.
func NormalizeDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// civilDate drops the clock and zone of t, keeping the calendar date as seen in t's location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntilExpiration counts whole calendar days from today to the item's expiration date.
// Negative means already expired. ok is false when the item has no usable expiration date.
func DaysUntilExpiration(item Item, today time.Time) (days int, ok bool) {
	exp, ok := ParseDate(item.ExpirationDate)
	if !ok {
		return 0, false
	}
	return int(exp.Sub(civilDate(today)).Hours() / 24), true
}

type ExpirationStatus string

const (
	StatusNoDate   ExpirationStatus = "none"
	StatusExpired  ExpirationStatus = "expired"
	StatusToday    ExpirationStatus = "today"
	StatusSoon     ExpirationStatus = "soon"
	StatusThisWeek ExpirationStatus = "week"
	StatusFresh    ExpirationStatus = "fresh"
)

// StatusOf buckets an item by how close it is to expiring.
func StatusOf(item Item, today time.Time) ExpirationStatus {
	days, ok := DaysUntilExpiration(item, today)
	switch {
	case !ok:
		return StatusNoDate
	case days < 0:
		return StatusExpired
	case days == 0:
		return StatusToday
	case days <= DefaultExpiringDays:
		return StatusSoon
	case days <= 7:
		return StatusThisWeek
	default:
		return StatusFresh
	}
}

// ExpirationText is the short human label for an item's expiration.
func ExpirationText(item Item, today time.Time) string {
	days, ok := DaysUntilExpiration(item, today)
	switch {
	case !ok:
		return "No expiration date"
	case days < 0:
		return fmt.Sprintf("Expired %d days ago", -days)
	case days == 0:
		return "Expires today"
	case days == 1:
		return "Expires tomorrow"
	default:
		return fmt.Sprintf("Expires in %d days", days)
	}
}
