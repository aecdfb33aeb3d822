package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/registry"
	"github.com/nulzo/formatapi/pkg/api"
	"github.com/nulzo/formatapi/pkg/schema"
)

type VendorHandler struct{}

func NewVendorHandler() *VendorHandler {
	return &VendorHandler{}
}

// List returns the vendor registry in classification order.
// GET /v1/vendors
func (h *VendorHandler) List(c *gin.Context) {
	profiles := registry.Profiles()
	out := make([]schema.VendorProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Schema())
	}
	c.JSON(http.StatusOK, api.NewList(out))
}
