// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/pkg/validation"
)

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	ItemID int `json:"item_id" binding:"required"`
}

// CartHandler handles cart endpoints
type CartHandler struct {
	registry *order.Registry
	catalog  catalog.Provider
	logger   logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(registry *order.Registry, provider catalog.Provider, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		registry: registry,
		catalog:  provider,
		logger:   logger,
	}
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": validation.FormatValidationError(err),
		})
		return
	}

	item, ok := h.catalog.Lookup(req.ItemID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": catalog.ErrNotFound.Error(),
		})
		return
	}

	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    session.AddItem(item),
	})
}

// RemoveItem handles DELETE /cart/items/:id. Every unit of the item is
// removed; removing an item that is not in the cart is not an error.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	removed := session.RemoveItem(itemID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"removed": removed,
		"data":    session.State(),
	})
}
