package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/server/validator"
	"github.com/nulzo/formatapi/pkg/api"
	"github.com/nulzo/formatapi/pkg/schema"
)

const maxHistoryPage = 100

type HistoryHandler struct {
	history ports.HistoryService
}

func NewHistoryHandler(history ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns recent records, or the matches for ?q=.
// GET /v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if q, ok := c.GetQuery("q"); ok {
		recs, err := h.history.Search(ctx, q)
		if err != nil {
			_ = c.Error(domain.InternalError("Failed to search history", err))
			return
		}
		c.JSON(http.StatusOK, api.NewList(recs))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryPage {
			_ = c.Error(domain.ValidationError(map[string]string{
				"limit": "limit must be a number between 1 and 100",
			}))
			return
		}
		limit = n
	}

	recs, err := h.history.Recent(ctx, limit)
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to list history", err))
		return
	}
	c.JSON(http.StatusOK, api.NewList(recs))
}

// Create stores a configuration.
// POST /v1/history
func (h *HistoryHandler) Create(c *gin.Context) {
	var req api.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(validator.ParseValidationError(err)))
		return
	}

	rec, err := h.history.Add(c.Request.Context(), schema.HistoryRecord{
		Vendor:       req.Vendor,
		BaseURL:      req.BaseURL,
		APIKey:       req.APIKey,
		Models:       req.Models,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		_ = c.Error(domain.InternalError("Failed to save history", err))
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Delete removes one record.
// DELETE /v1/history/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.history.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear removes every record.
// DELETE /v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		_ = c.Error(domain.InternalError("Failed to clear history", err))
		return
	}
	c.Status(http.StatusNoContent)
}
