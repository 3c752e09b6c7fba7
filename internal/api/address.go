package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// AddressRequest represents a new shipping address
type AddressRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phonenumber" binding:"required"`
	Line1       string `json:"line1" binding:"required"`
	Line2       string `json:"line2"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`
}

// ListAddressesHandler returns the caller's addresses, newest first
func ListAddressesHandler(addresses *service.AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		list, err := addresses.ListAddresses(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// AddAddressHandler stores a new address for the caller
func AddAddressHandler(addresses *service.AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req AddressRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		addr, err := addresses.AddAddress(c.Request.Context(), userID, service.AddressInput(req))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, addr) // Return the stored address
	}
}
