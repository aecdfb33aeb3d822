package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/core/ports"
	"github.com/nulzo/formatapi/internal/server/validator"
	"github.com/nulzo/formatapi/pkg/api"
)

type ParseHandler struct {
	parser ports.Parser
}

func NewParseHandler(parser ports.Parser) *ParseHandler {
	return &ParseHandler{parser: parser}
}

// Parse extracts ranked URL and key candidates from pasted text.
// POST /v1/parse
func (h *ParseHandler) Parse(c *gin.Context) {
	var req api.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// returns RFC compliant error
		_ = c.Error(domain.ValidationError(validator.ParseValidationError(err)))
		return
	}

	c.JSON(http.StatusOK, h.parser.ParseContext(c.Request.Context(), req.Text))
}

// Select parses text and then replaces the selected URL and key with the
// caller's choices.
// POST /v1/parse/select
func (h *ParseHandler) Select(c *gin.Context) {
	var req api.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(validator.ParseValidationError(err)))
		return
	}

	result := h.parser.ParseContext(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, h.parser.Select(result, req.BaseURL, req.APIKey))
}
