// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/burger-pizza/internal/config"
	"github.com/your-org/burger-pizza/internal/pkg/auth"
)

// SessionIDKey is the context key holding the caller's order session id
const SessionIDKey = "session_id"

// SessionTokenHeader carries the session token for clients without cookies
const SessionTokenHeader = "X-Session-Token"

// Session binds every request to an order session. The token is read from
// the session cookie, the X-Session-Token header or a bearer token; a
// missing or invalid token starts a new session.
func Session(cfg *config.Config, tokens *auth.SessionManager, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cfg.Session.CookieName)

		if token != "" {
			sessionID, err := tokens.Validate(token)
			if err == nil {
				c.Set(SessionIDKey, sessionID)
				c.Next()
				return
			}
			logger.WithError(err).Debug("Discarding invalid session token")
		}

		sessionID := auth.NewSessionID()
		token, err := tokens.Issue(sessionID)
		if err != nil {
			logger.WithError(err).Error("Failed to issue session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to start session",
			})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.Session.CookieName, token, int(tokens.TTL().Seconds()), "/", "", cfg.Session.SecureOnly, true)
		c.Header(SessionTokenHeader, token)
		c.Set(SessionIDKey, sessionID)

		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	if token := c.GetHeader(SessionTokenHeader); token != "" {
		return token
	}
	return auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
}

// GetSessionIDFromContext returns the session id set by Session
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := sessionID.(string)
	return id, ok && id != ""
}
