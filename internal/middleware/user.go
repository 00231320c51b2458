package middleware

import (
	"course_catalog/internal/domain" // Importing domain models
	"errors"                         // Sentinel errors
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

var errInvalidHeader = errors.New("authorization header must use the Bearer scheme")

// ExistingUserMiddleware checks on each request that the token's user still exists
func ExistingUserMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c) // Get userID from context
		// Check if userID exists in context
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var n int64 // Matching users
		if err := db.WithContext(c.Request.Context()).Model(&domain.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			// Lookup failed, not the user's fault
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		// Deleted users keep valid tokens until expiry
		if n == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
