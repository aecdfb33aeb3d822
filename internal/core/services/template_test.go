package services

import (
	"context"
	"testing"
	"time"

	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTemplateID(t *testing.T) {
	assert.Equal(t, "my_cool_tool", TemplateID("My Cool-Tool"))
	assert.Equal(t, "cursor", TemplateID("  Cursor "))
}

func TestTemplateSave(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := NewTemplateService(repo, nil)
	fixed := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	stored := &schema.Template{ID: "cherry_studio", Name: "Cherry Studio", Body: "{api_key}"}
	repo.templates.On("Upsert", ctx, mock.MatchedBy(func(tpl *schema.Template) bool {
		return tpl.ID == "cherry_studio" && tpl.Name == "Cherry Studio" && tpl.UpdatedAt.Equal(fixed)
	})).Return(nil)
	repo.templates.On("Get", ctx, "cherry_studio").Return(stored, nil)

	got, err := svc.Save(ctx, " Cherry Studio ", "{api_key}", "")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	repo.templates.AssertExpectations(t)
}

func TestTemplateSave_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(newMockRepository(), nil)

	_, err := svc.Save(ctx, "  ", "x", "")
	assert.ErrorIs(t, err, ErrTemplateName)

	_, err = svc.Save(ctx, "name", " ", "")
	assert.ErrorIs(t, err, ErrTemplateBody)

	_, err = svc.Save(ctx, "name", `{"api_key": `, "")
	assert.Error(t, err)
}

func TestTemplateApply(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := NewTemplateService(repo, nil)

	repo.templates.On("Get", ctx, "env").Return(&schema.Template{ID: "env", Body: "KEY={api_key} URL={base_url}"}, nil)
	repo.templates.On("Get", ctx, "missing").Return(nil, store.ErrNotFound)

	out, err := svc.Apply(ctx, "env", format.Input{APIKey: "sk-1", BaseURL: "https://x.test"})
	require.NoError(t, err)
	assert.Equal(t, "KEY=sk-1 URL=https://x.test", out)

	_, err = svc.Apply(ctx, "missing", format.Input{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
