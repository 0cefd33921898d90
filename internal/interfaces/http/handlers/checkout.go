// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/infrastructure/geolocation"
	"github.com/your-org/burger-pizza/internal/pkg/validation"
)

// CaptureLocationRequest is the body of POST /checkout/location. When both
// coordinates are present they are used as reported by the client.
type CaptureLocationRequest struct {
	Lat *float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng *float64 `json:"lng" binding:"omitempty,gte=-180,lte=180"`
}

// IPLocator resolves a client address to a geolocator
type IPLocator interface {
	ForIP(ip string) order.Geolocator
}

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	registry  *order.Registry
	ipLocator IPLocator
	logger    logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler. ipLocator may be nil
// when IP lookups are disabled.
func NewCheckoutHandler(registry *order.Registry, ipLocator IPLocator, logger logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		registry:  registry,
		ipLocator: ipLocator,
		logger:    logger,
	}
}

// BeginCheckout handles POST /checkout
func (h *CheckoutHandler) BeginCheckout(c *gin.Context) {
	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	snapshot, err := session.BeginCheckout()
	if err != nil {
		h.phaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Checkout started",
		"snapshot": snapshot,
		"data":     session.State(),
	})
}

// CancelCheckout handles DELETE /checkout
func (h *CheckoutHandler) CancelCheckout(c *gin.Context) {
	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	if err := session.CancelCheckout(); err != nil {
		h.phaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout cancelled",
		"data":    session.State(),
	})
}

// UpdateContact handles PATCH /checkout/contact. The body maps field names
// to values; nothing is applied unless every field name is known.
func (h *CheckoutHandler) UpdateContact(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	fields := make(map[order.ContactField]string, len(req))
	for name, value := range req {
		field, err := order.ParseContactField(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		fields[field] = value
	}

	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	if err := session.UpdateContact(fields); err != nil {
		h.phaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact details updated",
		"data":    session.State(),
	})
}

// CaptureLocation handles POST /checkout/location. The lookup runs in the
// background and its result shows up in the session state; with ?wait=true
// the handler waits for it instead.
func (h *CheckoutHandler) CaptureLocation(c *gin.Context) {
	var req CaptureLocationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": validation.FormatValidationError(err),
			})
			return
		}
	}

	var locator order.Geolocator
	switch {
	case req.Lat != nil && req.Lng != nil:
		locator = geolocation.Reported{Lat: *req.Lat, Lng: *req.Lng}
	case req.Lat != nil || req.Lng != nil:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "lat and lng must be sent together",
		})
		return
	case h.ipLocator != nil:
		locator = h.ipLocator.ForIP(c.ClientIP())
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Coordinates required",
		})
		return
	}

	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	result, err := session.CaptureLocation(c.Request.Context(), locator)
	if err != nil {
		h.phaseError(c, err)
		return
	}

	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Location capture started",
		})
		return
	}

	select {
	case res := <-result:
		if res.Err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Location lookup failed",
				"data":  session.State(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Location captured",
			"location": res.Location,
			"data":     session.State(),
		})
	case <-c.Request.Context().Done():
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Location capture still running",
		})
	}
}

// SubmitOrder handles POST /checkout/submit
func (h *CheckoutHandler) SubmitOrder(c *gin.Context) {
	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	submission, err := session.SubmitOrder(c.Request.Context(), validation.RequireContact)
	var missing *validation.MissingFieldsError
	switch {
	case errors.Is(err, order.ErrInvalidPhase):
		h.phaseError(c, err)
		return
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Missing required fields",
			"fields": missing.Fields,
		})
		return
	case err != nil:
		h.logger.WithError(err).Error("Order submission failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to submit order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order submitted successfully",
		"data":    submission,
	})
}

func (h *CheckoutHandler) phaseError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrInvalidPhase) {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.logger.WithError(err).Error("Checkout operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Checkout operation failed",
	})
}
