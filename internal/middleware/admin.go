package middleware

import (
	"context"  // Context for store lookups
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RoleChecker reports whether a user holds the admin role
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// AdminOnlyMiddleware checks the user's role from the store on each request
func AdminOnlyMiddleware(roles RoleChecker, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		isAdmin, err := roles.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		// Check if user role is admin
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
