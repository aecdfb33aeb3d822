package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/formatapi/internal/extract"
	"github.com/nulzo/formatapi/internal/registry"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"go.uber.org/zap"
)

const (
	// DefaultHistoryLimit is how many records are retained.
	DefaultHistoryLimit = 100
	// DefaultRecentLimit is how many records Recent returns without a limit.
	DefaultRecentLimit = 20
)

type HistoryService struct {
	repo   store.Repository
	limit  int
	logger *zap.Logger
	now    func() time.Time
}

func NewHistoryService(repo store.Repository, limit int, logger *zap.Logger) *HistoryService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		repo:   repo,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// Add stores rec as the newest record and drops the oldest ones past the
// retention limit. ID and CreatedAt are always assigned here.
func (s *HistoryService) Add(ctx context.Context, rec schema.HistoryRecord) (*schema.HistoryRecord, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()
	if rec.Vendor == "" {
		rec.Vendor = registry.Detect(rec.BaseURL)
	}
	if rec.Capabilities == nil {
		rec.Capabilities = registry.CapabilitiesFor(rec.Vendor)
	}
	if rec.Models == nil {
		rec.Models = []string{}
	}

	err := s.repo.WithTx(ctx, func(tx store.Repository) error {
		if err := tx.History().Add(ctx, &rec); err != nil {
			return err
		}
		return tx.History().Trim(ctx, s.limit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}

	s.logger.Debug("History record saved",
		zap.String("id", rec.ID),
		zap.String("vendor", rec.Vendor),
		zap.String("api_key", extract.MaskSecret(rec.APIKey)),
	)
	return &rec, nil
}

// Recent returns up to limit records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]schema.HistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	recs, err := s.repo.History().Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return recs, nil
}

// Search matches keyword against vendor and base URL. A blank keyword
// behaves like Recent with the default limit.
func (s *HistoryService) Search(ctx context.Context, keyword string) ([]schema.HistoryRecord, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.Recent(ctx, DefaultRecentLimit)
	}
	recs, err := s.repo.History().Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	return recs, nil
}

func (s *HistoryService) Delete(ctx context.Context, id string) error {
	return s.repo.History().Delete(ctx, id)
}

func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.repo.History().Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.logger.Info("History cleared")
	return nil
}
