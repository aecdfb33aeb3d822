package services

import (
	"context"

	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/stretchr/testify/mock"
)

// MockRepository implements store.Repository; transactions run inline.
type MockRepository struct {
	history   *MockHistoryRepository
	templates *MockTemplateRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		history:   &MockHistoryRepository{},
		templates: &MockTemplateRepository{},
	}
}

func (m *MockRepository) History() store.HistoryRepository    { return m.history }
func (m *MockRepository) Templates() store.TemplateRepository { return m.templates }
func (m *MockRepository) Close() error                        { return nil }

func (m *MockRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	return fn(m)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Add(ctx context.Context, rec *schema.HistoryRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockHistoryRepository) Recent(ctx context.Context, limit int) ([]schema.HistoryRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) Search(ctx context.Context, keyword string) ([]schema.HistoryRecord, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHistoryRepository) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHistoryRepository) Trim(ctx context.Context, keep int) error {
	return m.Called(ctx, keep).Error(0)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Upsert(ctx context.Context, t *schema.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Get(ctx context.Context, id string) (*schema.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Template), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]schema.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.Template), args.Error(1)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
