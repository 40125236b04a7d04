package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prabhata303-del/Dd/internal/catalog"
	"github.com/prabhata303-del/Dd/internal/settings"
)

// CatalogHandler serves the public read models. These endpoints never
// fail: the services behind them degrade to placeholder payloads.
type CatalogHandler struct {
	catalog  *catalog.Service
	settings *settings.Service
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs *catalog.Service, ss *settings.Service) *CatalogHandler {
	return &CatalogHandler{catalog: cs, settings: ss}
}

// Dishes handles GET /api/v1/catalog/dishes?pincode=560001.
func (h *CatalogHandler) Dishes(c *gin.Context) {
	pincode := c.Query("pincode")
	c.JSON(http.StatusOK, h.catalog.Dishes(c.Request.Context(), pincode))
}

// Categories handles GET /api/v1/catalog/categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Categories(c.Request.Context()))
}

// Banners handles GET /api/v1/catalog/banners.
func (h *CatalogHandler) Banners(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Banners(c.Request.Context()))
}

// Settings handles GET /api/v1/settings.
func (h *CatalogHandler) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Fetch(c.Request.Context()))
}
