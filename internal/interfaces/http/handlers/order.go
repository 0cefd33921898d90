// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/interfaces/http/middleware"
	"github.com/your-org/burger-pizza/internal/pkg/pdf"
)

// OrderFinder looks up submitted orders
type OrderFinder interface {
	FindByNumber(ctx context.Context, number string) (*order.Submission, error)
}

// OrderHandler serves stored orders and their receipts
type OrderHandler struct {
	orders   OrderFinder
	receipts *pdf.Service
	logger   logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderFinder, receipts *pdf.Service, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		receipts: receipts,
		logger:   logger,
	}
}

// GetOrder handles GET /orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	sub, ok := h.find(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    sub,
	})
}

// GetReceipt handles GET /orders/:number/receipt. PDF by default, HTML with
// ?format=html.
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	sub, ok := h.find(c)
	if !ok {
		return
	}

	if c.Query("format") == "html" {
		html, err := h.receipts.RenderHTML(sub)
		if err != nil {
			h.logger.WithError(err).Error("Failed to render receipt")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to render receipt",
			})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	pdfBuffer, err := h.receipts.GenerateReceipt(sub)
	if err != nil {
		h.logger.WithField("order_number", sub.OrderNumber).WithError(err).Error("Failed to generate receipt")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", sub.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// find loads the order and checks it was placed from the caller's session.
// Orders of other sessions are reported as not found.
func (h *OrderHandler) find(c *gin.Context) (*order.Submission, bool) {
	number := c.Param("number")
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	sub, err := h.orders.FindByNumber(c.Request.Context(), number)
	if errors.Is(err, order.ErrOrderNotFound) || (err == nil && (sessionID == "" || sub.SessionID != sessionID)) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return nil, false
	}
	if err != nil {
		h.logger.WithField("order_number", number).WithError(err).Error("Failed to load order")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return nil, false
	}

	return sub, true
}
