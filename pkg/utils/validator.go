package utils

import (
	"fmt"
	"regexp"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SanitizeString strips control characters from user supplied text
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}

// ValidateYearMonth checks a budget period for plausibility
func ValidateYearMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return fmt.Errorf("year out of range: %d", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12: %d", month)
	}
	return nil
}
