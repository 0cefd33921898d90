// internal/interfaces/http/handlers/session.go
package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/interfaces/http/middleware"
)

const keepAliveInterval = 15 * time.Second

// SessionHandler exposes the caller's order session
type SessionHandler struct {
	registry *order.Registry
	logger   logrus.FieldLogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *order.Registry, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    session.State(),
	})
}

// Events handles GET /session/events. It streams the session state as
// server-sent events, starting with the current state.
func (h *SessionHandler) Events(c *gin.Context) {
	session, ok := currentSession(c, h.registry, h.logger)
	if !ok {
		return
	}

	// One-slot mailbox holding the newest state. Observers run under the
	// session lock, so the send must never block.
	updates := make(chan order.State, 1)
	unsubscribe := session.Subscribe(func(state order.State) {
		select {
		case <-updates:
		default:
		}
		updates <- state
	})
	defer unsubscribe()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	// Streams outlive the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("state", session.State())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case state := <-updates:
			c.SSEvent("state", state)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

// currentSession resolves the caller's session, writing an error response
// when it cannot
func currentSession(c *gin.Context, registry *order.Registry, logger logrus.FieldLogger) (*order.Session, bool) {
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "No session",
		})
		return nil, false
	}

	session, err := registry.Get(c.Request.Context(), sessionID)
	if err != nil {
		logger.WithField("session_id", sessionID).WithError(err).Error("Failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load session",
		})
		return nil, false
	}

	return session, true
}
