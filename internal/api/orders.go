package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListOrdersHandler returns the caller's orders with their items, newest first
func ListOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		list, cached, err := orders.ListOrders(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		setCacheHeader(c, cached)
		c.JSON(http.StatusOK, list)
	}
}
