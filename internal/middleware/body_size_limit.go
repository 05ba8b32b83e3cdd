package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimitMiddleware caps request body size. Session payloads are
// tiny, so anything large is garbage or abuse.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bodiless methods pass through untouched
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

		c.Next()
	}
}
