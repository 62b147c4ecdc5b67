package middleware

import (
	"net/http"                 // HTTP status codes
	"shopease/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RequireRole gates a route group to one role. The role claim is checked
// first, then the user row is re-read so that a ban or role change takes
// effect on the next request even while an old token is still live.
func RequireRole(db *gorm.DB, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(CtxUserID) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Cheap claim check before touching the database
		if claimed, ok := c.Get(CtxRole); !ok || claimed.(domain.Role) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		// Banned accounts cannot act regardless of token validity
		if user.Status != domain.StatusActive || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
