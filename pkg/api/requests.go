package api

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	Text string `json:"text" binding:"required,max=1048576"`
}

// SelectRequest is the body of POST /v1/parse/select. BaseURL and APIKey
// replace the top-ranked candidates when set.
type SelectRequest struct {
	Text    string `json:"text" binding:"required,max=1048576"`
	BaseURL string `json:"base_url" binding:"omitempty,url"`
	APIKey  string `json:"api_key"`
}

// FormatRequest is the body of POST /v1/format.
type FormatRequest struct {
	Vendor       string   `json:"vendor"`
	BaseURL      string   `json:"base_url" binding:"omitempty,url"`
	APIKey       string   `json:"api_key"`
	Models       []string `json:"models" binding:"omitempty,dive,required"`
	Capabilities []string `json:"capabilities"`
	Format       string   `json:"format" binding:"omitempty,format"`
	Minimal      bool     `json:"minimal"`
	TemplateID   string   `json:"template_id"`
}

// HistoryRequest is the body of POST /v1/history.
type HistoryRequest struct {
	Vendor       string   `json:"vendor"`
	BaseURL      string   `json:"base_url"`
	APIKey       string   `json:"api_key"`
	Models       []string `json:"models"`
	Capabilities []string `json:"capabilities"`
}

// TemplateRequest is the body of POST /v1/templates.
type TemplateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Body        string `json:"body" binding:"required"`
}
