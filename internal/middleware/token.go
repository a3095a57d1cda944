package middleware

import (
	"strings"

	"arqueogw/internal/backend"

	"github.com/gin-gonic/gin"
)

// ForwardBearer copies the caller's bearer token into the request context
// so the backend client can forward it verbatim. The gateway does not
// validate tokens — the POS backend is the authority; requests without a
// token simply get the backend's own 401.
func ForwardBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), token))
		}
		c.Next()
	}
}
