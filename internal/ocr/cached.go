package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Cached memoizes another Extractor by image content.
type Cached struct {
	next   Extractor
	cache  ports.CacheService
	ttl    time.Duration
	mode   string
	logger *zap.Logger
}

func NewCached(next Extractor, cache ports.CacheService, ttl time.Duration, mode string, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: cache, ttl: ttl, mode: mode, logger: logger}
}

func (c *Cached) ExtractModels(ctx context.Context, imagePath string) ([]string, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: read image %s", imagePath)
	}
	sum := sha256.Sum256(raw)
	key := "ocr:" + c.mode + ":" + hex.EncodeToString(sum[:])

	var models []string
	if err := c.cache.Get(ctx, key, &models); err == nil {
		c.logger.Debug("OCR cache hit", zap.String("key", key))
		return models, nil
	}

	models, err = c.next.ExtractModels(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, models, c.ttl); err != nil {
		c.logger.Warn("Failed to cache OCR result", zap.Error(err))
	}
	return models, nil
}
