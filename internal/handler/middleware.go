package handler

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "Bearer "
)

// APIKeyAuth guards archive writes. The key comes from X-API-Key or an
// "Authorization: Bearer" header. An empty key disables the check.
// Rejections use the same JSON shape as writeError, with kind
// "unauthorized" or "forbidden".
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := providedAPIKey(c)
		if provided == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing API key: set X-API-Key or Authorization: Bearer")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			log.Printf("rejected API key for %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			abortAuth(c, http.StatusForbidden, "forbidden", "invalid API key")
			return
		}
		c.Next()
	}
}

func providedAPIKey(c *gin.Context) string {
	if k := strings.TrimSpace(c.GetHeader(apiKeyHeader)); k != "" {
		return k
	}
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) > len(bearerPrefix) && strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}

func abortAuth(c *gin.Context, status int, kind, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "kind": kind})
}
