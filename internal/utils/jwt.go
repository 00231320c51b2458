package utils

import (
	"strconv" // User ID formatting
	"time"    // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an issued login token stays valid
const TokenTTL = 24 * time.Hour

// Claims carries the authenticated user in a login token
type Claims struct {
	UserID               uint   `json:"user_id"` // Custom claim for user ID
	Login                string `json:"login"`   // Custom claim for user login
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token for the given user
func GenerateJWT(userID uint, login, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10), // Subject is the user ID
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),  // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),                // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a token string, accepting only HS256
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
