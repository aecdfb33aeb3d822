// Package extract finds endpoint URLs and API credentials in free-form text
// and ranks them by confidence.
package extract

import "github.com/nulzo/formatapi/pkg/schema"

// Extractor runs the URL rule and an ordered list of credential rules.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	urlRule  Rule
	keyRules []Rule
}

// New returns an Extractor with the default rule set.
func New() *Extractor {
	return &Extractor{
		urlRule: URLRule,
		keyRules: []Rule{
			PrefixedSecretRule,
			BearerRule,
			BareTokenRule,
		},
	}
}

// KeyRules returns the credential rules in evaluation order.
func (e *Extractor) KeyRules() []Rule {
	return append([]Rule(nil), e.keyRules...)
}

// FindURLs returns ranked, deduplicated URL candidates. The result is never nil.
func (e *Extractor) FindURLs(text string) []schema.Candidate {
	return Rank(e.urlRule.Find(text))
}

// FindKeys returns ranked, deduplicated credential candidates. Matches from
// every rule are pooled before ranking, so a value found by two rules keeps
// its higher score. The result is never nil.
func (e *Extractor) FindKeys(text string) []schema.Candidate {
	var pooled []schema.Candidate
	for _, r := range e.keyRules {
		pooled = append(pooled, r.Find(text)...)
	}
	return Rank(pooled)
}
