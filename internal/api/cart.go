package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// AddToCartRequest represents an add-to-cart request
type AddToCartRequest struct {
	ProductID uint   `json:"productId" binding:"required"`     // Product to add
	Quantity  int    `json:"quantity" binding:"required,gt=0"` // Must be positive
	Size      string `json:"size"`                             // Optional variant selector
}

// UpdateCartItemRequest represents a partial cart line update
type UpdateCartItemRequest struct {
	Quantity *int    `json:"quantity"` // New quantity, when present
	Size     *string `json:"size"`     // New size, when present
}

// ListCartHandler returns the caller's cart lines joined with product details
func ListCartHandler(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		lines, err := carts.ListCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lines) // Return the lines
	}
}

// AddToCartHandler adds a product to the caller's cart and reserves its stock
func AddToCartHandler(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		item, err := carts.AddToCart(c.Request.Context(), userID, service.AddItemInput{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Size:      req.Size,
		})
		if err != nil {
			respondError(c, err) // 404 unknown product, 400 insufficient stock
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "item": item})
	}
}

// UpdateCartItemHandler changes the quantity or size of one of the caller's cart lines
func UpdateCartItemHandler(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		itemID, ok := pathID(c, "itemId") // Parse the line ID from the path
		if !ok {
			return
		}
		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		item, err := carts.UpdateCartItem(c.Request.Context(), userID, itemID, service.UpdateItemInput{
			Quantity: req.Quantity,
			Size:     req.Size,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "item": item})
	}
}

// RemoveFromCartHandler deletes one of the caller's cart lines and restores its stock
func RemoveFromCartHandler(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		itemID, ok := pathID(c, "itemId")
		if !ok {
			return
		}
		if err := carts.RemoveFromCart(c.Request.Context(), userID, itemID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}
