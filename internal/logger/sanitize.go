package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength caps URL paths in log fields.
	MaxPathLength = 500
	// MaxEmailLength caps email addresses in log fields.
	MaxEmailLength = 254
	// MaxErrorMessageLength caps error messages in log fields.
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength caps any other string in log fields.
	MaxGeneralStringLength = 2000
)

// SanitizePath sanitizes a URL path for logging: valid UTF-8, no control
// characters, truncated to MaxPathLength.
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeEmail sanitizes an email address for logging. Only the address is
// kept, never any credential that may have been pasted alongside it.
func SanitizeEmail(email string) string {
	return SanitizeString(email, MaxEmailLength)
}

// SanitizeString removes control characters, repairs invalid UTF-8 and
// truncates to maxLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}
	s = filterRunes(s)
	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}

// SanitizeError sanitizes an error message for logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

func filterRunes(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
