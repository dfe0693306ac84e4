package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"travelguide/internal/service"
)

// sessionToken извлекает токен сессии из заголовка X-Session-Token
// или Authorization: Bearer
func sessionToken(c *gin.Context) string {
	token := c.GetHeader("X-Session-Token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	return token
}

// SessionAuthMiddleware - middleware, пропускающий только запросы
// с активной админской сессией
func SessionAuthMiddleware(sessions service.SessionService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			log.Warn("Session token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session token required"})
			return
		}

		active, err := sessions.Verify(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Error("Failed to verify session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !active {
			log.Warn("Invalid or expired session token provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Next()
	}
}
