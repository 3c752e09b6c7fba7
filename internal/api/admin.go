package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	defaultPageSize = 20  // Page size when none is given
	maxPageSize     = 100 // Upper bound on page size
)

// CreateProductRequest represents a new catalog product
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"` // Product name
	Price       int64  `json:"price" binding:"gte=0"`   // Minor units
	Stock       int    `json:"stock" binding:"gte=0"`   // Initial stock
	Image       string `json:"image"`                   // Image URL
	Description string `json:"description"`             // Free text
}

// ListUsersHandler returns one page of registered users
func ListUsersHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 1                   // Default page number
		pageSize := defaultPageSize // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
				pageSize = v // Set page size
			}
		}
		result, cached, err := auth.ListUsers(c.Request.Context(), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       result.Users,      // List of users
			"page":        result.Page,       // Current page
			"page_size":   result.PageSize,   // Page size
			"total":       result.Total,      // Total number of users
			"total_pages": result.TotalPages, // Total pages
			"cached":      cached,            // Whether the page came from cache
		})
	}
}

// CreateProductHandler adds a product to the catalog
func CreateProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		product, err := products.CreateProduct(c.Request.Context(), service.ProductInput(req))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
