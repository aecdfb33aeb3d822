package store

import (
	"context"
	"errors"

	"github.com/nulzo/formatapi/pkg/schema"
)

// ErrNotFound is returned when a record addressed by ID does not exist.
var ErrNotFound = errors.New("store: not found")

// Repository is the main contract for the data layer.
type Repository interface {
	History() HistoryRepository
	Templates() TemplateRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type HistoryRepository interface {
	// Add stores a record. ID and CreatedAt must be set by the caller.
	Add(ctx context.Context, rec *schema.HistoryRecord) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]schema.HistoryRecord, error)
	// Search matches keyword case-insensitively against vendor and base URL.
	Search(ctx context.Context, keyword string) ([]schema.HistoryRecord, error)
	// Delete removes one record.
	Delete(ctx context.Context, id string) error
	// Clear removes every record.
	Clear(ctx context.Context) error
	// Trim keeps only the newest keep records.
	Trim(ctx context.Context, keep int) error
}

type TemplateRepository interface {
	// Upsert creates or replaces a template by ID.
	Upsert(ctx context.Context, t *schema.Template) error
	Get(ctx context.Context, id string) (*schema.Template, error)
	// List returns templates ordered by name.
	List(ctx context.Context) ([]schema.Template, error)
	Delete(ctx context.Context, id string) error
}
