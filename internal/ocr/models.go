package ocr

import (
	"regexp"
	"slices"
	"strings"
)

const (
	minModelNameLen = 3
	maxModelNameLen = 80
)

var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)gpt-[\w.-]+`),
	regexp.MustCompile(`(?i)claude-[\w.-]+`),
	regexp.MustCompile(`(?i)gemini-[\w.-]+`),
	regexp.MustCompile(`(?i)deepseek-[\w.-]+`),
	regexp.MustCompile(`(?i)glm-[\w.-]+`),
	regexp.MustCompile(`(?i)moonshot-[\w.-]+`),
	regexp.MustCompile(`(?i)[\w-]+-\d{8,}`),
	regexp.MustCompile(`(?i)o1-[\w.-]+`),
	regexp.MustCompile(`(?i)text-[\w.-]+`),
}

// ParseModelNames finds model identifiers in OCR output. Results are
// lower-cased, unique and sorted.
func ParseModelNames(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range modelPatterns {
		for _, m := range re.FindAllString(text, -1) {
			name := strings.ToLower(m)
			if len(name) < minModelNameLen || len(name) > maxModelNameLen {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
