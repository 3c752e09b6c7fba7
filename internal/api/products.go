package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListProductsHandler returns the product catalog
func ListProductsHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, cached, err := products.ListProducts(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		setCacheHeader(c, cached) // HIT when served from Redis
		c.JSON(http.StatusOK, list)
	}
}
