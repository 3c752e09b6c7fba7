package api

import (
	"errors"   // Error kind checks
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"storefront/internal/apperr"     // Application error kinds
	"storefront/internal/middleware" // Identity helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respondError writes err as {"error": message} with its mapped status.
// Internal failures are logged and never expose their cause.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError || errors.Is(err, apperr.ErrInternal) {
		middleware.Logger(c).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// currentUser returns the authenticated user ID or aborts with 401
func currentUser(c *gin.Context) (uint, bool) {
	userID, exists := middleware.UserID(c) // Get userID from context
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// pathID parses a numeric path parameter or aborts with 400
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// setCacheHeader reports whether a read was served from cache
func setCacheHeader(c *gin.Context, cached bool) {
	if cached {
		c.Header("X-Cache", "HIT")
		return
	}
	c.Header("X-Cache", "MISS")
}
