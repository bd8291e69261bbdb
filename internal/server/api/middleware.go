package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yebin817/passvault/internal/server/auth"
)

// ownerKey is the gin context key holding the authenticated account id.
const ownerKey = "ownerID"

// requireAuth verifies the Bearer token and stores the account id in the
// request context. Requests without a valid token never reach a handler.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, h.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ownerKey, userID)
		c.Next()
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}
