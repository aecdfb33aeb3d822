package extract

import (
	"math"
	"sort"
	"strings"

	"github.com/nulzo/formatapi/pkg/schema"
)

// URL scores are accumulated in hundredths so that sums compare exactly.
const (
	basePoints        = 40
	versionPoints     = 30
	httpsPoints       = 10
	knownDomainPoints = 20
	maxScore          = 1.0
)

// knownDomains are host fragments of first-party vendor endpoints.
var knownDomains = []string{
	"openai.com",
	"anthropic.com",
	"googleapis.com",
	"deepseek",
	"zhipuai",
	"moonshot",
}

// ScoreURL returns the confidence that url is an API base URL.
//
// The score starts at 0.4 and adds 0.3 for a /v1 path segment, 0.1 for
// https and 0.2 when the host carries a known vendor domain. The result is
// capped at 1.0.
func ScoreURL(url string) float64 {
	lower := strings.ToLower(url)
	points := basePoints

	if strings.Contains(lower, "/v1") {
		points += versionPoints
	}
	if strings.HasPrefix(lower, "https://") {
		points += httpsPoints
	}
	if host := hostOf(lower); containsAny(host, knownDomains) {
		points += knownDomainPoints
	}

	return math.Min(float64(points)/100, maxScore)
}

// Rank orders candidates by descending score, keeping encounter order among
// equal scores, then drops later duplicates of the same value.
func Rank(candidates []schema.Candidate) []schema.Candidate {
	sorted := make([]schema.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]schema.Candidate, 0, len(sorted))
	for _, c := range sorted {
		if _, dup := seen[c.Value]; dup {
			continue
		}
		seen[c.Value] = struct{}{}
		out = append(out, c)
	}
	return out
}

// hostOf returns the authority part of an http(s) URL without parsing it
// strictly; extracted candidates are frequently not RFC 3986 clean.
func hostOf(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
