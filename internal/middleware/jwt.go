package middleware

import (
	"course_catalog/internal/utils" // JWT utility functions
	"net/http"                      // HTTP status codes
	"strings"                       // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the auth middlewares
const (
	UserIDKey = "userID"
	LoginKey  = "login"
)

// bearerClaims extracts and validates the bearer token, if any
func bearerClaims(c *gin.Context, secret string) (*utils.Claims, bool, error) {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if authHeader == "" {
		return nil, false, nil // No credentials presented
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, true, errInvalidHeader // Wrong scheme
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
	claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
	return claims, true, err
}

// JWTAuthMiddleware rejects requests without a valid token and stores the user in context
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, present, err := bearerClaims(c, secret)
		if !present {
			// No header at all
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		if err != nil {
			// Malformed, expired or forged token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Set(LoginKey, claims.Login)   // Store login in context
		c.Next()                        // Proceed to the next handler
	}
}

// OptionalJWTMiddleware stores the user in context when a valid token is
// presented; anonymous or invalid requests continue as anonymous
func OptionalJWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, present, err := bearerClaims(c, secret); present && err == nil {
			c.Set(UserIDKey, claims.UserID) // Store userID in context
			c.Set(LoginKey, claims.Login)   // Store login in context
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, or 0 for anonymous requests
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
