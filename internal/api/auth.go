package api

import (
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"shopease/internal/domain" // Importing domain models
	"shopease/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// SignupRequest carries the signup form
type SignupRequest struct {
	Name            string `json:"name" binding:"required"`             // Display name
	Email           string `json:"email" binding:"required,email"`      // Login email
	Phone           string `json:"phone"`                               // Contact phone
	Address         string `json:"address"`                             // Delivery address
	Password        string `json:"password" binding:"required,min=8"`   // Plain password, hashed before storage
	ConfirmPassword string `json:"confirm_password" binding:"required"` // Must match Password
	Role            string `json:"role"`                                // customer (default) or seller
}

// LoginRequest carries the login form
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Plain password
}

// AuthResponse carries a fresh JWT
type AuthResponse struct {
	Token string      `json:"token"` // JWT token
	Name  string      `json:"name"`  // Display name for the client
	Role  domain.Role `json:"role"`  // Account role for client routing
}

// SignupHandler registers a new account. Admin accounts cannot be created
// through the public form.
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
			return
		}
		// Default to customer; only customer and seller may self-register
		role := domain.Role(req.Role)
		if role == "" {
			role = domain.RoleCustomer
		}
		if role != domain.RoleCustomer && role != domain.RoleSeller {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Name:     req.Name,
			Email:    strings.ToLower(req.Email), // Lowercase to keep uniqueness case-insensitive
			Phone:    req.Phone,
			Address:  req.Address,
			Password: string(hash),
			Role:     role,
			Status:   domain.StatusActive,
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Duplicate email is the expected failure here
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully! Please login."})
	}
}

// LoginHandler authenticates a user and returns a JWT token. Banned
// accounts are rejected regardless of password correctness.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		err := db.Where("email = ? AND status = ?", strings.ToLower(req.Email), domain.StatusActive).
			First(&user).Error
		if err != nil {
			// Not found and banned look identical to the caller
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials or account is banned"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials or account is banned"})
			return
		}
		// Generate JWT token carrying identity and role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token, Name: user.Name, Role: user.Role})
	}
}

// ForgotPasswordHandler acknowledges a reset request. Mail delivery is out
// of scope; the endpoint only reports whether the address is known.
func ForgotPasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"` // Account email
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User
		err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reset link sent to your email"})
	}
}
