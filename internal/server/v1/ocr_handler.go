package v1

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/pkg/api"
	"go.uber.org/zap"
)

// MaxImageSize bounds OCR uploads.
const MaxImageSize = 10 << 20

type OCRHandler struct {
	extractor ports.ModelExtractor
	logger    *zap.Logger
}

// NewOCRHandler creates the handler. A nil extractor answers 503.
func NewOCRHandler(extractor ports.ModelExtractor, logger *zap.Logger) *OCRHandler {
	return &OCRHandler{extractor: extractor, logger: logger}
}

// Extract reads model names from an uploaded screenshot.
// POST /v1/ocr (multipart field "image")
func (h *OCRHandler) Extract(c *gin.Context) {
	if h.extractor == nil {
		_ = c.Error(domain.UnavailableError("OCR is not configured", nil))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(domain.ValidationError(map[string]string{"image": "image is a required file"}))
		return
	}
	if file.Size > MaxImageSize {
		_ = c.Error(domain.PayloadTooLargeError("image exceeds 10 MiB"))
		return
	}

	dir, err := os.MkdirTemp("", "formatapi-ocr-*")
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to stage upload", err))
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			h.logger.Warn("Failed to remove OCR upload", zap.Error(err))
		}
	}()

	path := filepath.Join(dir, "upload"+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		_ = c.Error(domain.InternalError("Failed to stage upload", err))
		return
	}

	models, err := h.extractor.ExtractModels(c.Request.Context(), path)
	if err != nil {
		_ = c.Error(domain.UpstreamError("OCR failed", err))
		return
	}
	if models == nil {
		models = []string{}
	}
	c.JSON(http.StatusOK, api.OCRResponse{Models: models})
}
