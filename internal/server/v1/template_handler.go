package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/server/validator"
	"github.com/nulzo/formatapi/pkg/api"
)

type TemplateHandler struct {
	templates ports.TemplateService
}

func NewTemplateHandler(templates ports.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List returns all templates ordered by name.
// GET /v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	list, err := h.templates.List(c.Request.Context())
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to list templates", err))
		return
	}
	c.JSON(http.StatusOK, api.NewList(list))
}

// Get returns one template.
// GET /v1/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	t, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Save creates or replaces a template. The ID is derived from the name.
// POST /v1/templates
func (h *TemplateHandler) Save(c *gin.Context) {
	var req api.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(validator.ParseValidationError(err)))
		return
	}

	t, err := h.templates.Save(c.Request.Context(), req.Name, req.Body, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTemplateName), errors.Is(err, services.ErrTemplateBody):
			_ = c.Error(domain.BadRequestError(err.Error()))
		default:
			_ = c.Error(templateError(err))
		}
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete removes a template.
// DELETE /v1/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
