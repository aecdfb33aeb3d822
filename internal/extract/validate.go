package extract

import (
	"regexp"
	"strings"
)

var (
	validURL = regexp.MustCompile(`^https?://[^\s\v\p{Z}\x{85}]+$`)

	validKeyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^sk-[A-Za-z0-9]{20,}$`),
		regexp.MustCompile(`^[A-Za-z0-9_-]{32,}$`),
	}
)

// IsValidURL reports whether s, once surrounding whitespace is removed, is an
// http or https URL with a non-empty run of non-whitespace after the scheme.
func IsValidURL(s string) bool {
	return validURL.MatchString(strings.TrimSpace(s))
}

// IsValidAPIKey reports whether s looks like a credential: either an
// sk-prefixed secret or a long run of token characters.
func IsValidAPIKey(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range validKeyPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
