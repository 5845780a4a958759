package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Input validation and sanitization for query parameters

const maxKeywordLength = 256

var idPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateDateParam parses a date query parameter. Empty is valid and
// returns the zero time.
func ValidateDateParam(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected YYYY-MM-DD, got %q", name, value)
	}
	return t, nil
}

// ValidateKeyword bounds and cleans the keyword search parameter.
func ValidateKeyword(keyword string) (string, error) {
	keyword = SanitizeString(keyword)
	if len(keyword) > maxKeywordLength {
		return "", fmt.Errorf("keyword too long (max %d characters)", maxKeywordLength)
	}
	return keyword, nil
}

// ValidateReportID validates report instance ID format (UUID).
func ValidateReportID(id string) error {
	if id == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if !idPattern.MatchString(strings.ToLower(id)) {
		return fmt.Errorf("invalid report ID format")
	}
	return nil
}

// SplitTargetsParam parses a comma-separated targets parameter, dropping
// blanks.
func SplitTargetsParam(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
