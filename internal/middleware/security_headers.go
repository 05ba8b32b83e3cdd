package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds defensive headers to all responses.
// Session state responses carry credentials-scoped data, so caching is
// disabled everywhere.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")

		c.Next()
	}
}
