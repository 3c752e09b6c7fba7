package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"storefront/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID" // Authenticated user ID (uint)
	EmailKey  = "email"  // Authenticated user email
)

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// JWTAuthMiddleware validates JWT tokens and extracts user information
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := BearerToken(c)
		// Check if the Authorization header is present and properly formatted
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Set(EmailKey, claims.Email)   // Store email in context
		c.Next()                        // Proceed to the next handler
	}
}

// UserID returns the authenticated user ID stored by JWTAuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
