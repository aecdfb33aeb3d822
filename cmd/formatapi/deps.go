package main

import (
	"io"
	"os"

	"github.com/nulzo/formatapi/internal/config"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/ocr"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/internal/store/cache"
	"github.com/nulzo/formatapi/internal/store/sqlite"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// readInput returns the contents of the named file, or stdin when args is
// empty or "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", eris.Wrapf(err, "read %s", args[0])
	}
	return string(b), nil
}

func openStore() (store.Repository, error) {
	repo, err := sqlite.NewSQLiteStorage(cfg.Store.DSN, log)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return repo, nil
}

// withStore opens the store, runs fn and closes the store again.
func withStore(fn func(repo store.Repository) error) error {
	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close() //nolint:errcheck
	return fn(repo)
}

func historyService(repo store.Repository) *services.HistoryService {
	return services.NewHistoryService(repo, cfg.History.Limit, log)
}

// newCache returns a Redis backed cache when enabled, falling back to an
// in-process cache when Redis is disabled or unreachable.
func newCache(c config.RedisConfig) (ports.CacheService, func()) {
	if !c.Enabled {
		return cache.NewMemoryCache(), func() {}
	}
	client, err := cache.NewRedisClient(c.Addr, c.Password, c.DB)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory cache", zap.String("addr", c.Addr), zap.Error(err))
		return cache.NewMemoryCache(), func() {}
	}
	log.Info("Connected to Redis", zap.String("addr", c.Addr))
	return cache.NewRedisCache(client, "formatapi:"), func() { _ = client.Close() }
}

// newExtractor builds the configured OCR backend wrapped in a result cache.
func newExtractor(c ports.CacheService) (ports.ModelExtractor, error) {
	ex, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return nil, err
	}
	if cfg.OCR.CacheTTL <= 0 {
		return ex, nil
	}
	return ocr.NewCached(ex, c, cfg.OCR.CacheTTL, cfg.OCR.Mode, log), nil
}
