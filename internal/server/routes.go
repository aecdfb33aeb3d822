package server

import (
	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/server/middleware"
	v1 "github.com/nulzo/formatapi/internal/server/v1"
)

const serviceName = "formatapi"

func (s *Server) SetupRoutes() {
	// 1. Global Middleware
	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing(serviceName))
	}
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	// 2. Health Check (Public)
	healthHandler := v1.NewHealthHandler(s.version)
	s.router.GET("/health", healthHandler.Health)

	// 3. API V1 Group
	api := s.router.Group("/v1")
	if rl := s.config.RateLimit; rl.RequestsPerSecond > 0 {
		api.Use(middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, s.logger).Middleware())
	}
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	{
		parseHandler := v1.NewParseHandler(s.services.Parser)
		api.POST("/parse", parseHandler.Parse)
		api.POST("/parse/select", parseHandler.Select)

		vendorHandler := v1.NewVendorHandler()
		api.GET("/vendors", vendorHandler.List)

		defaultFormat, err := format.ParseFormat(s.config.Output.Format)
		if err != nil {
			defaultFormat = format.Env
		}
		formatHandler := v1.NewFormatHandler(s.services.Formatter, s.services.Templates, defaultFormat)
		api.POST("/format", formatHandler.Format)

		historyHandler := v1.NewHistoryHandler(s.services.History)
		api.GET("/history", historyHandler.List)
		api.POST("/history", historyHandler.Create)
		api.DELETE("/history", historyHandler.Clear)
		api.DELETE("/history/:id", historyHandler.Delete)

		templateHandler := v1.NewTemplateHandler(s.services.Templates)
		api.GET("/templates", templateHandler.List)
		api.POST("/templates", templateHandler.Save)
		api.GET("/templates/:id", templateHandler.Get)
		api.DELETE("/templates/:id", templateHandler.Delete)

		ocrHandler := v1.NewOCRHandler(s.services.OCR, s.logger)
		api.POST("/ocr", ocrHandler.Extract)
	}
}
