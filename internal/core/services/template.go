package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"go.uber.org/zap"
)

var (
	ErrTemplateName = errors.New("template name is required")
	ErrTemplateBody = errors.New("template body is required")
)

var templateIDReplacer = strings.NewReplacer(" ", "_", "-", "_")

// TemplateID derives the storage ID of a template from its display name.
func TemplateID(name string) string {
	return templateIDReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

type TemplateService struct {
	repo   store.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewTemplateService(repo store.Repository, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Save creates the template or replaces the one with the same ID. The body
// must render against an empty input, so broken JSON is rejected up front.
func (s *TemplateService) Save(ctx context.Context, name, body, description string) (*schema.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemplateName
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrTemplateBody
	}
	if _, err := format.Render(body, format.Input{}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t := &schema.Template{
		ID:          TemplateID(name),
		Name:        name,
		Description: description,
		Body:        body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Templates().Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Debug("Template saved", zap.String("id", t.ID))
	return s.repo.Templates().Get(ctx, t.ID)
}

func (s *TemplateService) List(ctx context.Context) ([]schema.Template, error) {
	return s.repo.Templates().List(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id string) (*schema.Template, error) {
	return s.repo.Templates().Get(ctx, id)
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.repo.Templates().Delete(ctx, id)
}

// Apply renders the stored template id against in.
func (s *TemplateService) Apply(ctx context.Context, id string, in format.Input) (string, error) {
	t, err := s.repo.Templates().Get(ctx, id)
	if err != nil {
		return "", err
	}
	return format.Render(t.Body, in)
}
