package api

import (
	"context"  // Check deadlines
	"net/http" // HTTP status codes
	"time"     // Check timeout

	"github.com/gin-gonic/gin" // Gin web framework
)

// CheckFunc reports whether a dependency is reachable
type CheckFunc func(ctx context.Context) error

const readinessTimeout = 2 * time.Second

// LivenessHandler reports that the process is serving
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	}
}

// ReadinessHandler runs every check and returns 503 if any fails
func ReadinessHandler(checks map[string]CheckFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}
		state := "up"
		if status != http.StatusOK {
			state = "down"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
