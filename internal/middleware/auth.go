package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mentorbridge/dashboard-api/pkg/logger"
)

const (
	// ContextAuthHeader carries the opaque credential forwarded to the platform
	ContextAuthHeader = "authHeader"
	// ContextMentorUsername keys the per-mentor dashboard session
	ContextMentorUsername = "mentorUsername"
)

// CredentialMiddleware requires an Authorization header and threads it
// through to the platform client. The credential is never validated here:
// the platform API owns authentication and rejects bad credentials itself.
// The username embedded in a Basic-style credential keys the dashboard
// session; an undecodable credential keys on the raw header instead.
func CredentialMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		if header == "" {
			logger.Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			c.Abort()
			return
		}

		c.Set(ContextAuthHeader, header)
		c.Set(ContextMentorUsername, usernameFromCredential(header))
		c.Next()
	}
}

// usernameFromCredential extracts the username part of a Basic-style
// base64(username:password) credential, for session keying only
func usernameFromCredential(header string) string {
	payload := header
	if idx := strings.IndexByte(header, ' '); idx > 0 {
		payload = header[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return header
	}

	username, _, found := strings.Cut(string(decoded), ":")
	if !found || username == "" {
		return header
	}
	return username
}

// GetCredential returns the forwarded Authorization header for this request
func GetCredential(c *gin.Context) (string, bool) {
	header, ok := c.Get(ContextAuthHeader)
	if !ok {
		return "", false
	}
	value, ok := header.(string)
	return value, ok && value != ""
}

// GetMentorUsername returns the session key derived from the credential
func GetMentorUsername(c *gin.Context) (string, bool) {
	username, ok := c.Get(ContextMentorUsername)
	if !ok {
		return "", false
	}
	value, ok := username.(string)
	return value, ok && value != ""
}
