package auth

import (
	"fmt"
	"time"
)

// TokenRotationThresholdDays is the number of days before warning about token age
const TokenRotationThresholdDays = 90

// TokenAgeDays calculates the age of a token in days from its creation time.
// Returns 0 if createdAt is zero (token age unknown).
func TokenAgeDays(createdAt time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	return int(time.Since(createdAt).Hours() / 24)
}

// IsTokenExpiringSoon checks if a token is older than the rotation threshold.
// Returns false if createdAt is zero (token age unknown).
func IsTokenExpiringSoon(createdAt time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	return TokenAgeDays(createdAt) > TokenRotationThresholdDays
}

// FormatTokenAge formats the token creation time and age in a human-readable way.
// Returns empty string if createdAt is zero (token age unknown).
func FormatTokenAge(createdAt time.Time) string {
	if createdAt.IsZero() {
		return ""
	}
	age := TokenAgeDays(createdAt)
	dateStr := createdAt.Format("2006-01-02")
	switch age {
	case 0:
		return fmt.Sprintf("created today (%s)", dateStr)
	case 1:
		return fmt.Sprintf("1 day ago (created %s)", dateStr)
	default:
		return fmt.Sprintf("%d days ago (created %s)", age, dateStr)
	}
}
