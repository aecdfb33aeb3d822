package registry

import "strings"

// Detect classifies a URL by vendor keyword.
//
// Matching is case-insensitive substring and first-match-wins in registry
// order: a URL such as https://claude.openai-proxy.dev resolves to "openai"
// because openai is declared before anthropic. The generic profile is never
// matched by keyword. An empty URL, or one matching nothing, is generic.
func Detect(url string) string {
	if url == "" {
		return GenericVendor
	}

	lower := strings.ToLower(url)
	for _, p := range profiles {
		if p.Identity == GenericVendor {
			continue
		}
		for _, kw := range p.Keywords {
			if strings.Contains(lower, kw) {
				return p.Identity
			}
		}
	}

	return GenericVendor
}
