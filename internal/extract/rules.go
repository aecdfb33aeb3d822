package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nulzo/formatapi/pkg/schema"
)

// Fixed confidences for credential rules.
const (
	ScorePrefixedSecret = 0.95
	ScoreBearerToken    = 0.90
	ScoreBareToken      = 0.70
)

const (
	bareTokenMinLen = 32
	bareTokenMaxLen = 100
)

// trailingPunct is stripped from the end of every URL match, ASCII and
// full-width forms alike.
const trailingPunct = ".,;:!?。，；：！？"

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{85},;。，；'"]+`)
	secretPattern = regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+([A-Za-z0-9_-]{20,})`)
	tokenLine     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	cjkIdeograph  = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
)

// Rule is one named extraction pattern. Rules are independent of each other
// and of the order in which they run; ranking happens afterwards.
type Rule struct {
	Name string
	find func(text string) []schema.Candidate
}

// Find applies the rule to text and returns its raw, unranked matches.
func (r Rule) Find(text string) []schema.Candidate {
	return r.find(text)
}

// URLRule matches http(s) URLs and scores each one with ScoreURL.
var URLRule = Rule{Name: "url", find: findURLs}

// PrefixedSecretRule matches sk- secrets.
var PrefixedSecretRule = Rule{
	Name: "sk-prefixed",
	find: func(text string) []schema.Candidate {
		return fixed(secretPattern.FindAllString(text, -1), ScorePrefixedSecret)
	},
}

// BearerRule captures the token following the word Bearer, case-insensitive.
var BearerRule = Rule{
	Name: "bearer",
	find: func(text string) []schema.Candidate {
		var tokens []string
		for _, m := range bearerPattern.FindAllStringSubmatch(text, -1) {
			tokens = append(tokens, m[1])
		}
		return fixed(tokens, ScoreBearerToken)
	},
}

// BareTokenRule treats whole lines of token characters as credentials.
// Lines starting with http and lines holding CJK ideographs are skipped.
var BareTokenRule = Rule{Name: "bare-line", find: findBareTokens}

func findURLs(text string) []schema.Candidate {
	var out []schema.Candidate
	for _, m := range urlPattern.FindAllString(text, -1) {
		u := strings.TrimRight(m, trailingPunct)
		if !IsValidURL(u) {
			continue
		}
		out = append(out, schema.Candidate{Value: u, Score: ScoreURL(u)})
	}
	return out
}

func findBareTokens(text string) []schema.Candidate {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			continue
		}
		if cjkIdeograph.MatchString(line) {
			continue
		}
		n := utf8.RuneCountInString(line)
		if n < bareTokenMinLen || n > bareTokenMaxLen {
			continue
		}
		if tokenLine.MatchString(line) {
			tokens = append(tokens, line)
		}
	}
	return fixed(tokens, ScoreBareToken)
}

func fixed(values []string, score float64) []schema.Candidate {
	out := make([]schema.Candidate, 0, len(values))
	for _, v := range values {
		out = append(out, schema.Candidate{Value: v, Score: score})
	}
	return out
}
