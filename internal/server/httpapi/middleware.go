package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/server/auth"
)

// addressContextKey is where the auth middleware leaves the caller's address.
const addressContextKey = "address"

// requireAuth validates the Bearer token and injects the authenticated
// address into the request context. Store routes refuse anonymous callers.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		address, err := auth.GetAddressFromToken(token, []byte(h.config.SecretKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(addressContextKey, address)
		c.Next()
	}
}
