package schema

import "time"

// HistoryRecord is one saved endpoint configuration, newest first in listings.
type HistoryRecord struct {
	ID           string    `json:"id"`
	Vendor       string    `json:"vendor"`
	BaseURL      string    `json:"base_url"`
	APIKey       string    `json:"api_key"`
	Models       []string  `json:"models"`
	Capabilities []string  `json:"capabilities"`
	CreatedAt    time.Time `json:"created_at"`
}

// Template is a user-defined output template.
//
// Body is either a plain text template with placeholders or a JSON document
// whose fields are filled in by key name.
type Template struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Body        string    `json:"body" db:"body"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
