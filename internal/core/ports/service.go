package ports

import (
	"context"

	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/pkg/schema"
)

// Parser extracts endpoint candidates from free-form text.
type Parser interface {
	ParseContext(ctx context.Context, text string) schema.ParseResult
	Select(r schema.ParseResult, baseURL, apiKey string) schema.ParseResult
}

// HistoryService keeps previously generated configurations.
type HistoryService interface {
	Add(ctx context.Context, rec schema.HistoryRecord) (*schema.HistoryRecord, error)
	Recent(ctx context.Context, limit int) ([]schema.HistoryRecord, error)
	Search(ctx context.Context, keyword string) ([]schema.HistoryRecord, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// TemplateService manages user-defined output templates.
type TemplateService interface {
	Save(ctx context.Context, name, body, description string) (*schema.Template, error)
	List(ctx context.Context) ([]schema.Template, error)
	Get(ctx context.Context, id string) (*schema.Template, error)
	Delete(ctx context.Context, id string) error
	Apply(ctx context.Context, id string, in format.Input) (string, error)
}
