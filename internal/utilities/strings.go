package utilities

import (
	"strings"
	"unicode"
)

// StringValue safely extracts a string from a *string, returning empty string if nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to a string if non-empty, nil otherwise
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Slugify lowercases s and replaces runs of non-alphanumeric characters with
// single hyphens, the way forum and thread slugs are derived from titles.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
