package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// SignupRequest represents a registration request
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`           // Display name must be provided
	Email    string `json:"email" binding:"required,email"`    // Valid email must be provided
	Password string `json:"password" binding:"required,min=8"` // At least 8 characters
	Phone    string `json:"phone"`                             // Contact phone
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// SignupHandler registers a new user
func SignupHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := auth.Signup(c.Request.Context(), service.SignupInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			respondError(c, err) // Conflict on duplicate email
			return
		}
		// Return the created user without its password digest
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err) // 404 unknown email, 401 bad password
			return
		}
		c.JSON(http.StatusOK, res) // Return the token in the response
	}
}
