package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// CheckoutRequest represents an order placement request
type CheckoutRequest struct {
	AddressID     uint   `json:"addressId" binding:"required"`     // Shipping address owned by the caller
	PaymentMethod string `json:"paymentMethod" binding:"required"` // Recorded on the order
}

// CheckoutHandler converts the caller's cart into an order
func CheckoutHandler(checkout *service.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req CheckoutRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := checkout.Checkout(c.Request.Context(), userID, service.CheckoutInput{
			AddressID:     req.AddressID,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			respondError(c, err) // Nothing was written on failure
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"orderId": res.OrderID, // ID of the new order
			"total":   res.Total,   // Order total in minor units
		})
	}
}
