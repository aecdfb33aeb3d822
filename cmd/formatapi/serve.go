package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/platform/otel"
	"github.com/nulzo/formatapi/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracer, err := otel.InitTracer(otel.Options{
			Enabled:     cfg.Tracing.Enabled,
			ServiceName: "formatapi",
			Version:     AppVersion,
			SampleRatio: cfg.Tracing.SampleRatio,
			Writer:      os.Stderr,
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				log.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close() //nolint:errcheck

		c, closeCache := newCache(cfg.Redis)
		defer closeCache()

		var extractor ports.ModelExtractor
		if ex, err := newExtractor(c); err != nil {
			log.Warn("OCR disabled", zap.Error(err))
		} else {
			extractor = ex
		}

		srv := server.New(cfg, log, server.Services{
			Parser:    services.NewParserService(),
			History:   historyService(repo),
			Templates: services.NewTemplateService(repo, log),
			OCR:       extractor,
			Formatter: format.NewFormatter(),
		}, AppVersion)

		log.Info("Starting formatapi",
			zap.String("version", AppVersion),
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
		)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
