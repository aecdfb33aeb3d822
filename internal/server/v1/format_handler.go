package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/server/validator"
	"github.com/nulzo/formatapi/pkg/api"
)

type FormatHandler struct {
	formatter     *format.Formatter
	templates     ports.TemplateService
	defaultFormat format.Format
}

func NewFormatHandler(formatter *format.Formatter, templates ports.TemplateService, defaultFormat format.Format) *FormatHandler {
	return &FormatHandler{
		formatter:     formatter,
		templates:     templates,
		defaultFormat: defaultFormat,
	}
}

// Format renders a configuration in the requested output format, or through
// a stored template when template_id is set.
// POST /v1/format
func (h *FormatHandler) Format(c *gin.Context) {
	var req api.FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(validator.ParseValidationError(err)))
		return
	}

	in := format.Input{
		Vendor:       req.Vendor,
		BaseURL:      req.BaseURL,
		APIKey:       req.APIKey,
		Models:       req.Models,
		Capabilities: req.Capabilities,
	}

	if req.TemplateID != "" {
		content, err := h.templates.Apply(c.Request.Context(), req.TemplateID, in)
		if err != nil {
			_ = c.Error(templateError(err))
			return
		}
		c.JSON(http.StatusOK, api.FormatResponse{
			Format:    string(format.Custom),
			Extension: format.Extension(format.Custom),
			Content:   content,
		})
		return
	}

	f := h.defaultFormat
	if req.Format != "" {
		parsed, err := format.ParseFormat(req.Format)
		if err != nil {
			_ = c.Error(domain.BadRequestError(err.Error()))
			return
		}
		f = parsed
	}

	render := h.formatter.Format
	if req.Minimal {
		render = h.formatter.Minimal
	}
	content, err := render(in, f)
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to render output", err))
		return
	}

	c.JSON(http.StatusOK, api.FormatResponse{
		Format:    string(f),
		Extension: format.Extension(f),
		Content:   content,
	})
}

func templateError(err error) error {
	if errors.Is(err, format.ErrInvalidTemplate) {
		return domain.InvalidTemplateError(err.Error())
	}
	return err
}
