// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
)

// CatalogHandler serves the menu
type CatalogHandler struct {
	catalog  catalog.Provider
	currency string
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(provider catalog.Provider, currency string) *CatalogHandler {
	return &CatalogHandler{
		catalog:  provider,
		currency: currency,
	}
}

// GetCatalog handles GET /catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog retrieved successfully",
		"data": gin.H{
			"items":    h.catalog.Items(),
			"currency": h.currency,
		},
	})
}
