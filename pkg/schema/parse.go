package schema

// Candidate is a single URL or credential substring found in the input,
// paired with its confidence score.
type Candidate struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// ParseResult is the outcome of parsing one block of pasted text.
//
// Vendor is always derived from BaseURL; it is never set on its own.
type ParseResult struct {
	BaseURL       *string     `json:"base_url"`
	APIKey        *string     `json:"api_key"`
	Vendor        string      `json:"vendor"`
	URLCandidates []Candidate `json:"url_candidates"`
	KeyCandidates []Candidate `json:"key_candidates"`
}

// HasURL reports whether a base URL was selected.
func (r ParseResult) HasURL() bool {
	return r.BaseURL != nil && *r.BaseURL != ""
}

// HasKey reports whether an API key was selected.
func (r ParseResult) HasKey() bool {
	return r.APIKey != nil && *r.APIKey != ""
}

// URL returns the selected base URL or "".
func (r ParseResult) URL() string {
	if r.BaseURL == nil {
		return ""
	}
	return *r.BaseURL
}

// Key returns the selected API key or "".
func (r ParseResult) Key() string {
	if r.APIKey == nil {
		return ""
	}
	return *r.APIKey
}
