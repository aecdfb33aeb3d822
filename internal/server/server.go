package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/config"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/server/middleware"
	"github.com/nulzo/formatapi/internal/server/validator"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Services are the collaborators the HTTP layer dispatches to. OCR may be
// nil when no backend is configured.
type Services struct {
	Parser    ports.Parser
	History   ports.HistoryService
	Templates ports.TemplateService
	OCR       ports.ModelExtractor
	Formatter *format.Formatter
}

type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *zap.Logger
	services Services
	version  string
}

func New(cfg *config.Config, logger *zap.Logger, services Services, version string) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()
	engine.MaxMultipartMemory = 10 << 20

	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))

	if services.Formatter == nil {
		services.Formatter = format.NewFormatter()
	}

	s := &Server{
		router:   engine,
		config:   cfg,
		logger:   logger,
		services: services,
		version:  version,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
