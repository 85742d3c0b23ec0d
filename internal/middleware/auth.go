// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

const (
	headerAPIKey = "X-API-Key"
	headerAuth   = "Authorization"
	headerUserID = "X-User-ID"
	bearerPrefix = "Bearer "

	userIDKey = "user_id"
)

// APIKeyAuth authenticates requests with a configured API key. Token
// issuance and verification of end users is the external auth service's
// concern; a valid key plus the caller-supplied user ID header establishes
// identity for scoping.
type APIKeyAuth struct {
	apiKeys []string
}

// NewAPIKeyAuth creates the middleware. With no keys configured, every
// authenticated route rejects all requests.
func NewAPIKeyAuth(apiKeys []string) *APIKeyAuth {
	keys := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return &APIKeyAuth{apiKeys: keys}
}

// RequireUser rejects requests without a valid API key and user ID.
func (a *APIKeyAuth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.authenticate(c)
		if !ok {
			logger.Log.Warn("Unauthorized request",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:    http.StatusUnauthorized,
				Error:     "Unauthorized",
				Message:   "A valid API key and user ID are required",
				Timestamp: time.Now(),
				Path:      c.Request.URL.Path,
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalUser attaches the user identity when present but never rejects.
// Anonymous callers proceed subject to the guest quota.
func (a *APIKeyAuth) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := a.authenticate(c); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID for the request, if any.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

func (a *APIKeyAuth) authenticate(c *gin.Context) (string, bool) {
	apiKey := extractAPIKey(c)
	if !a.isValidAPIKey(apiKey) {
		return "", false
	}
	userID := strings.TrimSpace(c.GetHeader(headerUserID))
	if userID == "" {
		return "", false
	}
	return userID, true
}

func extractAPIKey(c *gin.Context) string {
	if apiKey := c.GetHeader(headerAPIKey); apiKey != "" {
		return apiKey
	}
	authHeader := c.GetHeader(headerAuth)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}
	return ""
}

// isValidAPIKey uses constant-time comparison to prevent timing attacks.
func (a *APIKeyAuth) isValidAPIKey(providedKey string) bool {
	if providedKey == "" || len(a.apiKeys) == 0 {
		return false
	}
	for _, validKey := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}
